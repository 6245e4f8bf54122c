// Package stats accumulates win/loss and question statistics across
// games. One aggregator lives for the whole process; it is never reset
// between games.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type PlayerStats struct {
	Name        string  `json:"name"`
	GamesPlayed int     `json:"games_played"`
	GamesWon    int     `json:"games_won"`
	WinPercent  float64 `json:"win_percent"`
}

type QuestionStats struct {
	Text           string `json:"text"`
	TimesSelected  int    `json:"times_selected"`
	TimesCorrect   int    `json:"times_correct"`
	TimesIncorrect int    `json:"times_incorrect"`
}

// Report is the read-only view handed to the operator at game end.
type Report struct {
	TopPlayers   []PlayerStats   `json:"top_players"`
	MostSelected []QuestionStats `json:"most_selected"`
	MostCorrect  []QuestionStats `json:"most_correct"`
}

type Aggregator struct {
	mu        sync.Mutex
	players   map[string]*PlayerStats
	questions map[string]*QuestionStats
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		players:   make(map[string]*PlayerStats),
		questions: make(map[string]*QuestionStats),
	}
}

// RecordSelection counts one random draw of a question.
func (a *Aggregator) RecordSelection(question string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.question(question).TimesSelected++
}

// RecordAnswer counts one answer to a question. Automated players count
// here too; only win/loss statistics exclude them.
func (a *Aggregator) RecordAnswer(question string, correct bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	q := a.question(question)
	if correct {
		q.TimesCorrect++
	} else {
		q.TimesIncorrect++
	}
}

// RecordGameEnd credits one played game to every listed human player
// and, if winner names one of them, one win. An empty winner means the
// game finished without one.
func (a *Aggregator) RecordGameEnd(winner string, humans []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, name := range humans {
		p, ok := a.players[name]
		if !ok {
			p = &PlayerStats{Name: name}
			a.players[name] = p
		}
		p.GamesPlayed++
		if name == winner {
			p.GamesWon++
		}
		p.WinPercent = float64(p.GamesWon) / float64(p.GamesPlayed) * 100
	}
}

func (a *Aggregator) question(text string) *QuestionStats {
	q, ok := a.questions[text]
	if !ok {
		q = &QuestionStats{Text: text}
		a.questions[text] = q
	}
	return q
}

// Report returns the top-3 players by win percentage (ties broken by
// games played, descending) and the top-3 questions by selections and
// by correct answers.
func (a *Aggregator) Report() Report {
	a.mu.Lock()
	players := make([]PlayerStats, 0, len(a.players))
	for _, p := range a.players {
		players = append(players, *p)
	}
	questions := make([]QuestionStats, 0, len(a.questions))
	for _, q := range a.questions {
		questions = append(questions, *q)
	}
	a.mu.Unlock()

	sort.Slice(players, func(i, j int) bool {
		if players[i].WinPercent != players[j].WinPercent {
			return players[i].WinPercent > players[j].WinPercent
		}
		if players[i].GamesPlayed != players[j].GamesPlayed {
			return players[i].GamesPlayed > players[j].GamesPlayed
		}
		return players[i].Name < players[j].Name
	})

	bySelected := make([]QuestionStats, len(questions))
	copy(bySelected, questions)
	sort.Slice(bySelected, func(i, j int) bool {
		if bySelected[i].TimesSelected != bySelected[j].TimesSelected {
			return bySelected[i].TimesSelected > bySelected[j].TimesSelected
		}
		return bySelected[i].Text < bySelected[j].Text
	})

	byCorrect := make([]QuestionStats, len(questions))
	copy(byCorrect, questions)
	sort.Slice(byCorrect, func(i, j int) bool {
		if byCorrect[i].TimesCorrect != byCorrect[j].TimesCorrect {
			return byCorrect[i].TimesCorrect > byCorrect[j].TimesCorrect
		}
		return byCorrect[i].Text < byCorrect[j].Text
	})

	return Report{
		TopPlayers:   top3Players(players),
		MostSelected: top3Questions(bySelected),
		MostCorrect:  top3Questions(byCorrect),
	}
}

func top3Players(list []PlayerStats) []PlayerStats {
	if len(list) > 3 {
		list = list[:3]
	}
	return list
}

func top3Questions(list []QuestionStats) []QuestionStats {
	if len(list) > 3 {
		list = list[:3]
	}
	return list
}

// String renders the report for the operator console.
func (r Report) String() string {
	var b strings.Builder

	if len(r.TopPlayers) > 0 {
		b.WriteString("Top 3 players in percentage of wins:\n")
		for _, p := range r.TopPlayers {
			fmt.Fprintf(&b, "  %s: %d played, %d won (%.1f%%)\n",
				p.Name, p.GamesPlayed, p.GamesWon, p.WinPercent)
		}
	}

	b.WriteString("Top 3 viewed questions:\n")
	for _, q := range r.MostSelected {
		fmt.Fprintf(&b, "  %dx %s\n", q.TimesSelected, q.Text)
	}

	b.WriteString("Top 3 correctly answered questions:\n")
	for _, q := range r.MostCorrect {
		fmt.Fprintf(&b, "  %dx %s\n", q.TimesCorrect, q.Text)
	}

	return b.String()
}
