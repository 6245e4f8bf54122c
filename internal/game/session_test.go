package game

import (
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"triviamaster/internal/stats"
)

func TestResolveCaseTable(t *testing.T) {
	cases := []struct {
		name      string
		correct   []string
		incorrect []string
		want      verdict
	}{
		{"single correct answer wins", []string{"a"}, []string{"b"}, verdictWinner},
		{"single correct, nobody wrong", []string{"a"}, nil, verdictWinner},
		{"only wrong answers", nil, []string{"a", "b"}, verdictNoWinner},
		{"nobody answered", nil, nil, verdictNoAnswers},
		{"several correct answers tie", []string{"a", "b"}, []string{"c"}, verdictNextRound},
		{"everyone correct", []string{"a", "b", "c"}, nil, verdictNextRound},
	}

	for _, tc := range cases {
		if got := resolve(tc.correct, tc.incorrect); got != tc.want {
			t.Errorf("%s: resolve(%v, %v) = %v, want %v",
				tc.name, tc.correct, tc.incorrect, got, tc.want)
		}
	}
}

// fakeClient reads everything the server sends and replies with one
// scripted answer per question prompt. An empty answer means staying
// silent for that round.
type fakeClient struct {
	mu   sync.Mutex
	logs []string
}

func runClient(conn net.Conn, answers []string) *fakeClient {
	fc := &fakeClient{}
	go func() {
		buf := make([]byte, 4096)
		next := 0
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			msg := string(buf[:n])
			fc.mu.Lock()
			fc.logs = append(fc.logs, msg)
			fc.mu.Unlock()

			if strings.Contains(msg, "Question:") || strings.Contains(msg, "True or false:") {
				if next < len(answers) {
					if answers[next] != "" {
						conn.Write([]byte(answers[next]))
					}
					next++
				}
			}
		}
	}()
	return fc
}

func (fc *fakeClient) saw(sub string) bool {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for _, msg := range fc.logs {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}

func admitPipe(t *testing.T, s *Server, declared string, answers []string) (Player, *fakeClient) {
	t.Helper()
	client, server := net.Pipe()
	p, err := s.registry.Admit(server, declared, "h")
	if err != nil {
		t.Fatalf("Admit(%s): %v", declared, err)
	}
	return p, runClient(client, answers)
}

func playerStats(t *testing.T, agg *stats.Aggregator, name string) stats.PlayerStats {
	t.Helper()
	for _, p := range agg.Report().TopPlayers {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %s missing from report", name)
	return stats.PlayerStats{}
}

func TestGameWithSingleCorrectAnswerDeclaresWinner(t *testing.T) {
	s := newTestServer(300 * time.Millisecond)

	// Correct answer for the single-question bank is "true".
	a, clientA := admitPipe(t, s, "A", []string{"T"})
	b, clientB := admitPipe(t, s, "B", []string{"F"})
	c, clientC := admitPipe(t, s, "C", nil) // times out

	s.playGame(s.registry.Players())

	if !clientA.saw("A_h Is Correct! A_h Wins!") {
		t.Error("winner never saw the winning result line")
	}
	if !clientB.saw("B_h Is InCorrect!") {
		t.Error("loser never saw the incorrect result line")
	}
	for name, fc := range map[string]*fakeClient{"A": clientA, "B": clientB, "C": clientC} {
		if !fc.saw("Game Over!") {
			t.Errorf("client %s never saw the game over announcement", name)
		}
	}

	// Winner gets a win; every human player of the game, the silent
	// one included, gets exactly one played game.
	if st := playerStats(t, s.stats, a.Name); st.GamesPlayed != 1 || st.GamesWon != 1 {
		t.Errorf("%s stats = %+v, want 1 played, 1 won", a.Name, st)
	}
	for _, p := range []Player{b, c} {
		if st := playerStats(t, s.stats, p.Name); st.GamesPlayed != 1 || st.GamesWon != 0 {
			t.Errorf("%s stats = %+v, want 1 played, 0 won", p.Name, st)
		}
	}

	if s.registry.Len() != 0 {
		t.Errorf("registry holds %d players after game end, want 0", s.registry.Len())
	}
}

func TestGameWithOnlyWrongAnswersHasNoWinner(t *testing.T) {
	s := newTestServer(300 * time.Millisecond)

	_, clientA := admitPipe(t, s, "A", []string{"F"})
	_, clientB := admitPipe(t, s, "B", []string{"N"})

	s.playGame(s.registry.Players())

	if !clientA.saw("No Winners!") || !clientB.saw("No Winners!") {
		t.Error("players never saw the no-winner announcement")
	}

	for _, p := range s.stats.Report().TopPlayers {
		if p.GamesPlayed != 1 || p.GamesWon != 0 {
			t.Errorf("%s stats = %+v, want 1 played, 0 won", p.Name, p)
		}
	}
	if len(s.stats.Report().TopPlayers) != 2 {
		t.Errorf("report has %d players, want 2", len(s.stats.Report().TopPlayers))
	}
}

func TestGameWithNoAnswersRestartsQuietly(t *testing.T) {
	s := newTestServer(200 * time.Millisecond)

	_, clientA := admitPipe(t, s, "A", nil)
	_, clientB := admitPipe(t, s, "B", nil)

	s.playGame(s.registry.Players())

	// Non-event: no game-over broadcast, no statistics update, and the
	// registry is released for the next admission cycle.
	if clientA.saw("Game Over!") || clientB.saw("Game Over!") {
		t.Error("quiet restart still broadcast a game over message")
	}
	if n := len(s.stats.Report().TopPlayers); n != 0 {
		t.Errorf("report has %d players after a no-answer game, want 0", n)
	}
	if s.registry.Len() != 0 {
		t.Errorf("registry holds %d players after restart, want 0", s.registry.Len())
	}
}

func TestTiedRoundAdvancesWithCorrectPlayersOnly(t *testing.T) {
	s := newTestServer(250 * time.Millisecond)

	// A and B answer round 1 correctly and tie; C is wrong. Round 2
	// then runs with {A, B} only, and both stay silent so the game
	// drains away quietly after it.
	_, clientA := admitPipe(t, s, "A", []string{"T"})
	_, clientB := admitPipe(t, s, "B", []string{"Y"})
	_, clientC := admitPipe(t, s, "C", []string{"F"})

	s.playGame(s.registry.Players())

	if !clientA.saw("Round 2, played by A_h and B_h") {
		t.Error("round 2 was not announced to the first tied player")
	}
	if !clientB.saw("Round 2, played by A_h and B_h") {
		t.Error("round 2 was not announced to the second tied player")
	}
	if clientC.saw("Round 2") {
		t.Error("eliminated player still saw the round 2 announcement")
	}
	if clientA.saw("Round 3") {
		t.Error("round number advanced past the silent round")
	}
}

func TestRecordOutcomeExcludesAutomatedPlayers(t *testing.T) {
	s := newTestServer(time.Second)
	roster := []Player{
		{Name: "alice_h", Ordinal: 1},
		{Name: "BOT: Thor_1a2b3c4d", Ordinal: 2, Automated: true},
	}

	// A bot winning ends the game but never earns a win.
	s.recordOutcome("BOT: Thor_1a2b3c4d", roster)

	report := s.stats.Report()
	if len(report.TopPlayers) != 1 {
		t.Fatalf("report has %d players, want only the human", len(report.TopPlayers))
	}
	if st := report.TopPlayers[0]; st.Name != "alice_h" || st.GamesPlayed != 1 || st.GamesWon != 0 {
		t.Errorf("human stats = %+v, want alice_h with 1 played, 0 won", st)
	}
}
