package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"triviamaster/internal/discovery"
	"triviamaster/internal/stats"
)

// Server owns one trivia session cycle: discovery broadcast, admission,
// rounds, and the hand-off of outcomes to the statistics aggregator.
type Server struct {
	cfg      Config
	bank     *Bank
	stats    *stats.Aggregator
	registry *Registry
	admitter *Admitter
	caster   *discovery.Broadcaster
	port     int
}

// NewServer binds the stream listener. A bind failure is fatal to
// startup and comes back as an error rather than a half-running server.
func NewServer(cfg Config, bank *Bank, agg *stats.Aggregator) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = discovery.LocalIP()
	}

	ln, port, err := ListenRange(cfg.Host, cfg.StreamPortLow, cfg.StreamPortHigh)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry()
	offer := discovery.Offer{ServerName: cfg.ServerName, StreamPort: uint16(port)}

	return &Server{
		cfg:      cfg,
		bank:     bank,
		stats:    agg,
		registry: registry,
		admitter: NewAdmitter(ln, registry, cfg.NameWait, cfg.JoinIdle),
		caster:   discovery.NewBroadcaster(offer, cfg.DiscoveryPort, cfg.BroadcastEvery),
		port:     port,
	}, nil
}

func (s *Server) Port() int { return s.port }

// Run drives offer/admission/game cycles forever. The broadcaster runs
// only while the join window is open.
func (s *Server) Run() {
	for {
		stop := make(chan struct{})
		go s.caster.Run(stop)
		fmt.Println("Sending out offer requests...")

		players := s.admitter.Admit()
		close(stop)

		fmt.Println("Starting the game!")
		s.playGame(players)
	}
}

// verdict is the exclusive four-way outcome of a resolved round.
type verdict int

const (
	verdictWinner verdict = iota
	verdictNoWinner
	verdictNoAnswers
	verdictNextRound
)

// resolve applies the outcome decision to a finished round. The cases
// are mutually exclusive and exhaustive over the counts of correct and
// incorrect answers.
func resolve(correct, incorrect []string) verdict {
	switch {
	case len(correct) == 1:
		return verdictWinner
	case len(correct) == 0 && len(incorrect) > 0:
		return verdictNoWinner
	case len(correct) == 0:
		return verdictNoAnswers
	default:
		return verdictNextRound
	}
}

// playGame runs rounds until a terminal outcome. Round 1 is open to the
// whole admitted roster; each later round is open to exactly the
// players who answered the prior question correctly.
func (s *Server) playGame(roster []Player) {
	eligible := roster
	number := 1

	for {
		r := s.playRound(number, eligible, roster)
		correct, incorrect := r.results()

		switch resolve(correct, incorrect) {
		case verdictWinner:
			winner := correct[0]
			s.registry.Broadcast(resultLines(correct, incorrect, true), named(append(correct, incorrect...)))
			msg := fmt.Sprintf("Game Over!\nCongratulations to the winner: %s", winner)
			fmt.Println(msg)
			s.registry.Broadcast(msg, nil)
			s.recordOutcome(winner, roster)
			s.finishGame()
			return

		case verdictNoWinner:
			s.registry.Broadcast(resultLines(correct, incorrect, false), named(incorrect))
			msg := "Game Over!\nNo Winners!"
			fmt.Println(msg)
			s.registry.Broadcast(msg, nil)
			s.recordOutcome("", roster)
			s.finishGame()
			return

		case verdictNoAnswers:
			// A round nobody answered is a non-event: no game-over
			// broadcast, no statistics, straight back to admission.
			s.registry.Reset()
			return

		case verdictNextRound:
			s.registry.Broadcast(resultLines(correct, incorrect, false), named(append(correct, incorrect...)))
			eligible = s.playersNamed(correct)
			number++
		}
	}
}

// playRound broadcasts a fresh question, fans out one collector per
// eligible player, and joins them after the fixed round duration. The
// answers map is not read before both the deadline and the join.
func (s *Server) playRound(number int, eligible, roster []Player) *Round {
	q := s.bank.Pick()
	s.stats.RecordSelection(q.Text)
	r := newRound(number, q, eligible, time.Now().Add(s.cfg.RoundLength))

	if number == 1 {
		msg := welcomeMessage(s.cfg.ServerName, roster, q)
		fmt.Println(msg)
		s.registry.Broadcast(msg, nil)
	} else {
		msg := roundMessage(number, eligible, q)
		fmt.Println(msg)
		s.registry.Broadcast(msg, named(playerNames(eligible)))
	}

	var wg sync.WaitGroup
	for _, p := range eligible {
		wg.Add(1)
		go func(p Player) {
			defer wg.Done()
			s.collectAnswer(r, p)
		}(p)
	}

	// The round never resolves early, even if every collector has
	// already reported.
	time.Sleep(time.Until(r.Deadline))
	wg.Wait()
	return r
}

// recordOutcome updates win/loss statistics for the game's human
// players. An automated winner still ends the game but earns no win.
func (s *Server) recordOutcome(winner string, roster []Player) {
	humans := make([]string, 0, len(roster))
	for _, p := range roster {
		if p.Automated {
			if p.Name == winner {
				winner = ""
			}
			continue
		}
		humans = append(humans, p.Name)
	}
	s.stats.RecordGameEnd(winner, humans)
}

func (s *Server) finishGame() {
	fmt.Println("Game over, sending out offer requests...")
	fmt.Println(s.stats.Report())
	s.registry.Reset()
	time.Sleep(s.cfg.LobbyPause)
}

// playersNamed maps continuing names back to live players. A player
// withdrawn since answering simply drops out of the next round.
func (s *Server) playersNamed(names []string) []Player {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}

	var list []Player
	for _, p := range s.registry.Players() {
		if set[p.Name] {
			list = append(list, p)
		}
	}
	return list
}

func welcomeMessage(serverName string, roster []Player, q Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome to the %s server, where we are answering true/false trivia questions\n", serverName)
	for _, p := range roster {
		fmt.Fprintf(&b, "Player %d : %s\n", p.Ordinal, p.Name)
	}
	fmt.Fprintf(&b, "==\nQuestion: %s", q.Text)
	return b.String()
}

func roundMessage(number int, eligible []Player, q Question) string {
	return fmt.Sprintf("Round %d, played by %s:\nTrue or false: %s",
		number, strings.Join(playerNames(eligible), " and "), q.Text)
}

func resultLines(correct, incorrect []string, winner bool) string {
	var b strings.Builder
	for _, name := range correct {
		if winner {
			fmt.Fprintf(&b, "%s Is Correct! %s Wins!\n", name, name)
		} else {
			fmt.Fprintf(&b, "%s Is Correct!\n", name)
		}
	}
	for _, name := range incorrect {
		fmt.Fprintf(&b, "%s Is InCorrect!\n", name)
	}
	return b.String()
}

func playerNames(players []Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}

// named builds a broadcast filter accepting the listed display names.
func named(names []string) func(Player) bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return func(p Player) bool { return set[p.Name] }
}
