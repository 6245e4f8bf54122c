package game

import (
	"net"
	"time"
)

// Player is one admitted connection. Display names are unique for the
// lifetime of a game; the ordinal records admission order.
type Player struct {
	Name      string
	Ordinal   int
	Conn      net.Conn
	Automated bool
}

// Question is a single true/false statement from the bank.
type Question struct {
	Text   string
	Answer bool
}

// Config collects the tunables of one server instance. Durations carry
// the protocol defaults; tests shrink them.
type Config struct {
	ServerName     string
	Host           string
	DiscoveryPort  int
	StreamPortLow  int
	StreamPortHigh int
	BroadcastEvery time.Duration
	JoinIdle       time.Duration // join window closes this long after the last admission
	NameWait       time.Duration // per-connection deadline for the declared name
	RoundLength    time.Duration
	LobbyPause     time.Duration // breather between a finished game and the next offer cycle
}

func DefaultConfig() Config {
	return Config{
		ServerName:     "TriviaMaster",
		DiscoveryPort:  13117,
		StreamPortLow:  1025,
		StreamPortHigh: 65535,
		BroadcastEvery: 1 * time.Second,
		JoinIdle:       10 * time.Second,
		NameWait:       10 * time.Second,
		RoundLength:    10 * time.Second,
		LobbyPause:     3 * time.Second,
	}
}
