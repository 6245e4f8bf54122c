package game

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// ParseToken maps a single-character answer token to its boolean value.
// Tokens are validated against the fixed sets before anything else
// happens with them.
func ParseToken(tok string) (value, ok bool) {
	switch tok {
	case "T", "Y", "1", "t", "y":
		return true, true
	case "F", "N", "0", "f", "n":
		return false, true
	}
	return false, false
}

// Round is one question/answer cycle. Collectors write the answers map
// concurrently; the coordinator reads it only after the deadline has
// passed and every collector has returned.
type Round struct {
	Number   int
	Question Question
	Deadline time.Time

	mu       sync.Mutex
	eligible map[string]bool
	answers  map[string]bool
}

func newRound(number int, q Question, eligible []Player, deadline time.Time) *Round {
	r := &Round{
		Number:   number,
		Question: q,
		Deadline: deadline,
		eligible: make(map[string]bool, len(eligible)),
		answers:  make(map[string]bool, len(eligible)),
	}
	for _, p := range eligible {
		r.eligible[p.Name] = true
	}
	return r
}

// record stores one player's normalized answer. Reports from players
// outside the eligible set, or a second report for the same player, are
// discarded.
func (r *Round) record(name string, answer bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.eligible[name] {
		return false
	}
	if _, dup := r.answers[name]; dup {
		return false
	}
	r.answers[name] = answer
	return true
}

// results splits the answered players into correct and incorrect,
// sorted for stable output. Players who never answered appear in
// neither slice.
func (r *Round) results() (correct, incorrect []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, answer := range r.answers {
		if answer == r.Question.Answer {
			correct = append(correct, name)
		} else {
			incorrect = append(incorrect, name)
		}
	}
	sort.Strings(correct)
	sort.Strings(incorrect)
	return correct, incorrect
}

// collectAnswer blocks on one player's connection until a recognized
// token arrives or the round deadline cuts the read off. Unrecognized
// tokens get a notice back and another chance within the same deadline.
// Timeouts and connection errors leave the player non-answering.
func (s *Server) collectAnswer(r *Round, p Player) {
	p.Conn.SetReadDeadline(r.Deadline)
	defer p.Conn.SetReadDeadline(time.Time{})

	buf := make([]byte, 64)
	for {
		n, err := p.Conn.Read(buf)
		if err != nil {
			return
		}

		tok := strings.TrimSpace(string(buf[:n]))
		if tok == "" {
			continue
		}

		value, ok := ParseToken(tok)
		if !ok {
			if _, err := p.Conn.Write([]byte("Invalid Answer!")); err != nil {
				s.registry.Remove(p.Conn)
				return
			}
			continue
		}

		if r.record(p.Name, value) {
			s.stats.RecordAnswer(r.Question.Text, value == r.Question.Answer)
		}
		return
	}
}
