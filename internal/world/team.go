package world

import (
	"slices"
	"strconv"
)

// Team — идентификатор команды
type Team uint8

const (
	TeamNone     Team = iota // ничья; в эффектах означает "бить всех"
	TeamDerelict             // заброшенные постройки, ни с кем не воюет
	TeamSharded
	TeamCrux
	TeamGreen
	TeamPurple
	TeamBlue
)

var teamNames = [...]string{"none", "derelict", "sharded", "crux", "green", "purple", "blue"}

// String возвращает имя команды
func (t Team) String() string {
	if int(t) < len(teamNames) {
		return teamNames[t]
	}
	return "team#" + strconv.Itoa(int(t))
}

// ParseTeam разбирает имя или номер команды
func ParseTeam(s string) (Team, bool) {
	for i, name := range teamNames {
		if name == s {
			return Team(i), true
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return TeamNone, false
	}
	return Team(n), true
}

// AreEnemies проверяет, враждуют ли две команды
func AreEnemies(a, b Team) bool {
	return a != b && a != TeamDerelict && b != TeamDerelict
}

// TeamData — состояние одной команды
type TeamData struct {
	Team   Team
	Active bool
	Cores  []*Tile
}

// Teams — реестр команд и их ядер
type Teams struct {
	data [256]*TeamData
}

// NewTeams создаёт пустой реестр
func NewTeams() *Teams {
	return &Teams{}
}

// Get возвращает данные команды, создавая их при необходимости
func (ts *Teams) Get(team Team) *TeamData {
	if ts.data[team] == nil {
		ts.data[team] = &TeamData{Team: team}
	}
	return ts.data[team]
}

// Activate помечает команду участником матча
func (ts *Teams) Activate(team Team) {
	if team == TeamNone {
		return
	}
	ts.Get(team).Active = true
}

// AddCore регистрирует ядро команды и активирует её
func (ts *Teams) AddCore(team Team, core *Tile) {
	ts.Activate(team)
	data := ts.Get(team)
	if !slices.Contains(data.Cores, core) {
		data.Cores = append(data.Cores, core)
	}
}

// RemoveCore удаляет ядро команды
func (ts *Teams) RemoveCore(team Team, core *Tile) {
	data := ts.Get(team)
	data.Cores = slices.DeleteFunc(data.Cores, func(t *Tile) bool { return t == core })
}

// Cores возвращает ядра команды
func (ts *Teams) Cores(team Team) []*Tile {
	if ts.data[team] == nil {
		return nil
	}
	return ts.data[team].Cores
}

// EnemiesOf возвращает активные команды, враждебные team, в порядке возрастания
func (ts *Teams) EnemiesOf(team Team) []Team {
	var enemies []Team
	for i, data := range ts.data {
		if data == nil || !data.Active {
			continue
		}
		if AreEnemies(team, Team(i)) {
			enemies = append(enemies, Team(i))
		}
	}
	return enemies
}
