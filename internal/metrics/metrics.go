// Package metrics объявляет Prometheus-метрики симуляции.
// Метрики регистрируются в глобальном реестре при импорте пакета.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// BuildBegin — начатые транзакции стройки по виду (place/break)
	BuildBegin = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockforge",
		Subsystem: "build",
		Name:      "begin_total",
		Help:      "Число начатых транзакций строительства и разбора.",
	}, []string{"kind"})

	// BuildRejected — отклонённые запросы стройки по виду
	BuildRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockforge",
		Subsystem: "build",
		Name:      "rejected_total",
		Help:      "Число запросов строительства и разбора, не прошедших проверку.",
	}, []string{"kind"})

	// ChainEffects — выполненные цепные эффекты
	ChainEffects = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blockforge",
		Subsystem: "effect",
		Name:      "chains_total",
		Help:      "Число выполненных цепных эффектов.",
	})

	// ChainHops — пройденные прыжки цепных эффектов
	ChainHops = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockforge",
		Subsystem: "effect",
		Name:      "hops_total",
		Help:      "Прыжки цепных эффектов: с целью (target) и без (wander).",
	}, []string{"kind"})

	// ActiveEffects — эффекты, ещё видимые на экране
	ActiveEffects = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "blockforge",
		Subsystem: "effect",
		Name:      "active",
		Help:      "Количество живых экземпляров эффектов.",
	})

	// DamageDealt — суммарный нанесённый урон
	DamageDealt = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blockforge",
		Subsystem: "combat",
		Name:      "damage_total",
		Help:      "Суммарный урон, нанесённый ударами.",
	})

	// UnitsKilled — единицы, убранные после гибели
	UnitsKilled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blockforge",
		Subsystem: "combat",
		Name:      "units_killed_total",
		Help:      "Число погибших единиц.",
	})

	// TickDuration — длительность тика симуляции
	TickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "blockforge",
		Subsystem: "sim",
		Name:      "tick_duration_seconds",
		Help:      "Длительность одного тика симуляции.",
		Buckets:   []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05},
	})
)

func init() {
	prometheus.MustRegister(BuildBegin, BuildRejected, ChainEffects, ChainHops, ActiveEffects, DamageDealt, UnitsKilled, TickDuration)
}
