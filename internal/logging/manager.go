package logging

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Компоненты сервера с собственными файлами логов
const (
	ComponentBuild  = "build"
	ComponentEffect = "effect"
	ComponentSim    = "sim"
	ComponentAPI    = "api"
)

// components хранит логгеры компонентов; создаются лениво при первом обращении
var components = struct {
	sync.Mutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// consoleLevel — минимальный уровень консольного вывода для новых логгеров
var consoleLevel = INFO

// Configure задаёт каталог файлов и уровень консоли для логгеров, создаваемых после вызова.
// Пустой dir оставляет текущий LogDir.
func Configure(dir string, level LogLevel) {
	if dir != "" {
		LogDir = dir
	}
	consoleLevel = level
}

// ParseLevel разбирает имя уровня без учёта регистра; пустая строка — INFO
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("неизвестный уровень логирования %q", s)
}

// GetComponentLogger возвращает логгер компонента, создавая его при первом вызове.
// Если файл создать не удалось, пишет только в stdout.
func GetComponentLogger(component string) *Logger {
	components.Lock()
	defer components.Unlock()

	if l, ok := components.loggers[component]; ok {
		return l
	}
	l, err := NewLogger(component)
	if err != nil {
		l = NewWriterLogger(component, os.Stdout, consoleLevel)
		l.Warn("файл логов недоступен: %v", err)
	}
	components.loggers[component] = l
	return l
}

// CloseComponentLoggers закрывает файлы всех логгеров компонентов
func CloseComponentLoggers() error {
	components.Lock()
	defer components.Unlock()

	var errs []error
	for name, l := range components.loggers {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	clear(components.loggers)
	return errors.Join(errs...)
}

func GetBuildLogger() *Logger  { return GetComponentLogger(ComponentBuild) }
func GetEffectLogger() *Logger { return GetComponentLogger(ComponentEffect) }
func GetSimLogger() *Logger    { return GetComponentLogger(ComponentSim) }
func GetAPILogger() *Logger    { return GetComponentLogger(ComponentAPI) }
