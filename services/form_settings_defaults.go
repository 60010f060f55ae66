package services

// defaultRequiredFields - обязательность полей форм, пока администратор ее не поменял.
// Ключ: контекст формы, затем поле.
var defaultRequiredFields = map[string]map[string]bool{
	"player_basic_known": {
		"firstName":    true,
		"lastName":     true,
		"birthYear":    true,
		"club":         true,
		"clubCountry":  true,
		"jerseyNumber": false,
	},
	"player_basic_unknown": {
		"jerseyNumber_unknown": true,
		"uClub":                true,
		"uClubCountry":         true,
		"uNote":                false,
	},
	"observation_new": {
		"match":         true,
		"date":          true,
		"time":          false,
		"opponentLevel": false,
		"mode":          false,
		"status":        false,
	},
	"observations_main": {
		"teamA":       true,
		"teamB":       true,
		"reportDate":  true,
		"time":        false,
		"conditions":  false,
		"competition": false,
		"players":     true,
		"note":        false,
	},
	"player_editor_basic_known": {
		"firstName":    true,
		"lastName":     true,
		"birthYear":    true,
		"club":         true,
		"clubCountry":  true,
		"jerseyNumber": false,
	},
	"player_editor_basic_unknown": {
		"jerseyNumber": true,
		"club":         true,
		"clubCountry":  true,
		"unknownNote":  false,
	},
	"player_editor_ext_profile": {
		"height":       false,
		"weight":       false,
		"dominantFoot": false,
		"mainPos":      false,
		"altPositions": false,
	},
	"player_editor_ext_eligibility": {
		"english":        false,
		"euPassport":     false,
		"birthCountry":   false,
		"contractStatus": false,
		"agency":         false,
		"releaseClause":  false,
		"leagueLevel":    false,
		"clipsLinks":     false,
		"transfermarkt":  false,
		"wyscout":        false,
	},
	"player_editor_contact": {
		"phone":  false,
		"email":  false,
		"fb":     false,
		"ig":     false,
		"tiktok": false,
	},
	"player_editor_grade": {
		"notes":        false,
		"finalComment": false,
	},
}

type aspectSeed struct {
	key, label, tooltip string
}

var defaultRatingAspects = []aspectSeed{
	{"phys", "Atrybuty fizyczne", "Szybkość, dynamika, siła, wytrzymałość, skoczność."},
	{"mental", "Atrybuty mentalno-behawioralne", "Nastawienie, koncentracja, reakcja na stres, zaangażowanie."},
	{"tech", "Atrybuty techniczne", "Prowadzenie, przyjęcie, podanie, strzał, drybling."},
	{"tactic", "Atrybuty taktyczne", "Ustawienie, czytanie gry, decyzje, fazy przejściowe."},
	{"sfg_attack", "Stałe fragmenty w ataku", "Wykonanie i udział przy SFG ofensywnych (rogi, wolne, wrzutki)."},
	{"sfg_defense", "Stałe fragmenty w obronie", "Organizacja i zachowania przy stałych fragmentach przeciwnika."},
}

// aspectGroups в порядке отображения.
var aspectGroups = []string{"GEN", "GK", "DEF", "MID", "FW"}

// metricGroups в порядке отображения: базовые категории, затем позиции.
var metricGroups = []string{"BASE", "GK", "DEF", "MID", "ATT"}

type metricSeed struct {
	group, key, label string
	order             int
}

var defaultObsMetrics = []metricSeed{
	{"BASE", "base_decisions_pressure", "Decyzje pod presją - wybór i szybkość decyzji w 1-2 s, minimalizacja strat.", 1},
	{"BASE", "base_first_touch_retention", "Pierwszy kontakt & utrzymanie - jakość przyjęcia, kierunkowe przyjęcie, ochrona piłki.", 2},
	{"BASE", "base_progression", "Progresja gry - przesuwanie akcji do przodu: podaniem, prowadzeniem lub ruchem.", 3},
	{"BASE", "base_off_ball", "Gra bez piłki - skan przed przyjęciem, ustawienie między liniami, reakcja po stracie (5 s).", 4},
	{"BASE", "base_duels_intensity", "Pojedynki & intensywność - 1v1 w ziemi/powietrzu, determinacja, doskok, powroty.", 5},
	{"BASE", "base_dynamics_workrate", "Dynamika & tempo pracy - szybkość pierwszych kroków, przyspieszenie, powtarzalność sprintów.", 6},
	{"GK", "gk_shot_stopping", "Shot-stopping & 1v1 - czas reakcji, skracanie kątów.", 1},
	{"GK", "gk_aerial", "Gra w powietrzu & wyjścia - ocena dośrodkowań, timing, chwyt.", 2},
	{"GK", "gk_build_up", "Gra nogami & budowanie - decyzje w krótkiej budowie, długie wznowienia.", 3},
	{"DEF", "def_1v1_defending", "1v1 w defensywie - pozycja ciała, timing, bezfaulowość.", 1},
	{"DEF", "def_aerial", "Gra w powietrzu - pozycjonowanie, wygrane główki.", 2},
	{"DEF", "def_build_up_press", "Wyprowadzenie pod pressingiem - odwaga, łamanie linii, diagonale.", 3},
	{"DEF", "def_crossing_runs", "Dośrodkowanie & wejścia (FB/WB) - jakość i wybór strefy.", 4},
	{"MID", "mid_press_resistance", "Odporność na pressing / obrót - gra półobrotem, wyjście z presji.", 1},
	{"MID", "mid_creation", "Kreacja / ostatnie podanie - jakość i timing zagrań kluczowych.", 2},
	{"MID", "mid_tempo_control", "Kontrola tempa - przyspieszanie/zwalnianie rytmu, wybór trzeciego człowieka.", 3},
	{"ATT", "att_movement_line", "Ruch na linii / atak przestrzeni - timing startów, utrzymanie pozycji spalonego.", 1},
	{"ATT", "att_finishing", "Wykończenie - techniki strzału (P/L/głowa), spokój w polu karnym.", 2},
	{"ATT", "att_link_play", "Łączenie gry / gra na ścianę - zgrywanie, podwójne akcje.", 3},
}

const defaultMetricLabel = "Nowa metryka"

// rankOrder - ранги от младшего к старшему; пороги обязаны не убывать в этом порядке.
var rankOrder = []string{"bronze", "silver", "gold", "platinum"}

var rankPresets = map[string]map[string]int{
	"light":     {"bronze": 0, "silver": 10, "gold": 25, "platinum": 40},
	"standard":  {"bronze": 0, "silver": 20, "gold": 50, "platinum": 100},
	"intensive": {"bronze": 0, "silver": 40, "gold": 80, "platinum": 150},
}

const defaultRankPreset = "standard"
