package game

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// BotTag marks a declared name as an automated player.
const BotTag = "BOT: "

var ErrSealed = errors.New("game: join window is closed")

// Registry holds the admitted players of one game cycle. All mutation
// goes through its lock; the lock is never held across a network call.
type Registry struct {
	mu      sync.Mutex
	players map[net.Conn]*Player
	ordinal int
	sealed  bool
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[net.Conn]*Player)}
}

// Admit registers a connection under a unique display name and the next
// ordinal. Automated players get a random suffix, humans their remote
// host, so concurrent admissions never collide. Fails once the join
// window has been sealed.
func (r *Registry) Admit(conn net.Conn, declared, remoteHost string) (Player, error) {
	name := displayName(declared, remoteHost)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return Player{}, ErrSealed
	}
	if r.nameTaken(name) {
		name = fmt.Sprintf("%s#%d", name, r.ordinal+1)
	}

	r.ordinal++
	p := &Player{
		Name:      name,
		Ordinal:   r.ordinal,
		Conn:      conn,
		Automated: strings.HasPrefix(declared, BotTag),
	}
	r.players[conn] = p
	return *p, nil
}

func displayName(declared, remoteHost string) string {
	if strings.HasPrefix(declared, BotTag) {
		id := uuid.New()
		return fmt.Sprintf("%s_%x", declared, id[:4])
	}
	return fmt.Sprintf("%s_%s", declared, remoteHost)
}

func (r *Registry) nameTaken(name string) bool {
	for _, p := range r.players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Seal closes the registry to new admissions until the next Reset.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Remove drops a player and closes its connection. Removing a
// connection that is already gone is a no-op.
func (r *Registry) Remove(conn net.Conn) {
	r.mu.Lock()
	_, ok := r.players[conn]
	delete(r.players, conn)
	r.mu.Unlock()

	if ok {
		conn.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Players returns a snapshot in admission order.
func (r *Registry) Players() []Player {
	r.mu.Lock()
	list := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		list = append(list, *p)
	}
	r.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].Ordinal < list[j].Ordinal })
	return list
}

// Broadcast sends msg to every player the filter accepts. A failed send
// withdraws that player but never aborts the fan-out to the rest. A nil
// filter means everyone.
func (r *Registry) Broadcast(msg string, filter func(Player) bool) {
	for _, p := range r.Players() {
		if filter != nil && !filter(p) {
			continue
		}
		if _, err := p.Conn.Write([]byte(msg)); err != nil {
			fmt.Printf("Error broadcasting message to %s: %v\n", p.Name, err)
			r.Remove(p.Conn)
		}
	}
}

// Reset closes every connection and reopens the registry for the next
// admission cycle.
func (r *Registry) Reset() {
	r.mu.Lock()
	conns := make([]net.Conn, 0, len(r.players))
	for conn := range r.players {
		conns = append(conns, conn)
	}
	r.players = make(map[net.Conn]*Player)
	r.ordinal = 0
	r.sealed = false
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}
