package game

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ListenRange binds the first free TCP port in [low, high]. Running out
// of ports is fatal to startup, so the caller gets the error back.
func ListenRange(host string, low, high int) (*net.TCPListener, int, error) {
	for port := low; port <= high; port++ {
		ln, err := net.Listen("tcp4", fmt.Sprintf("%s:%d", host, port))
		if err != nil {
			continue
		}
		return ln.(*net.TCPListener), port, nil
	}
	return nil, 0, fmt.Errorf("no free stream port in range %d-%d", low, high)
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Admitter accepts stream connections during a join window and hands
// admitted players to the session coordinator.
type Admitter struct {
	ln       *net.TCPListener
	registry *Registry
	nameWait time.Duration
	joinIdle time.Duration

	rlMu     sync.Mutex
	limiters map[string]*clientLimiter
}

func NewAdmitter(ln *net.TCPListener, registry *Registry, nameWait, joinIdle time.Duration) *Admitter {
	a := &Admitter{
		ln:       ln,
		registry: registry,
		nameWait: nameWait,
		joinIdle: joinIdle,
		limiters: make(map[string]*clientLimiter),
	}
	go a.cleanupLimiters()
	return a
}

// Admit runs one join window: it accepts connections until no admission
// has happened for the idle duration, re-arming as long as nobody has
// joined. It returns the admitted players with the registry sealed, so
// stragglers are rejected until the next cycle.
func (a *Admitter) Admit() []Player {
	conns := make(chan net.Conn)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go a.acceptLoop(conns, done, stopped)

	admitted := make(chan Player, 32)
	idle := time.NewTimer(a.joinIdle)
	defer idle.Stop()

	for {
		select {
		case conn := <-conns:
			go a.admitOne(conn, admitted)

		case p := <-admitted:
			fmt.Printf("Player %d joined as %s\n", p.Ordinal, p.Name)
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(a.joinIdle)

		case <-idle.C:
			if a.registry.Len() == 0 {
				// Nobody yet; keep the window open.
				idle.Reset(a.joinIdle)
				continue
			}
			a.registry.Seal()
			close(done)
			a.ln.SetDeadline(time.Now()) // wake the blocked Accept
			<-stopped
			a.ln.SetDeadline(time.Time{})
			return a.registry.Players()
		}
	}
}

func (a *Admitter) acceptLoop(conns chan<- net.Conn, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	for {
		conn, err := a.ln.Accept()
		select {
		case <-done:
			if err == nil {
				conn.Close()
			}
			return
		default:
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			fmt.Printf("Error on accept: %v\n", err)
			continue
		}

		ip := remoteHost(conn)
		if !a.limiterFor(ip).Allow() {
			fmt.Printf("Rate limit exceeded for %s\n", ip)
			conn.Close()
			continue
		}

		select {
		case conns <- conn:
		case <-done:
			conn.Close()
			return
		}
	}
}

// admitOne waits for the declared name on a fresh connection. No name
// within the deadline means the connection is dropped, not admitted.
func (a *Admitter) admitOne(conn net.Conn, admitted chan<- Player) {
	conn.SetReadDeadline(time.Now().Add(a.nameWait))
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil {
		fmt.Printf("Error handling client %s: %v\n", conn.RemoteAddr(), err)
		conn.Close()
		return
	}
	conn.SetReadDeadline(time.Time{})

	declared := strings.TrimSpace(string(buf[:n]))
	if declared == "" {
		conn.Close()
		return
	}

	p, err := a.registry.Admit(conn, declared, remoteHost(conn))
	if err != nil {
		conn.Close()
		return
	}

	select {
	case admitted <- p:
	default:
	}
}

func (a *Admitter) limiterFor(ip string) *rate.Limiter {
	a.rlMu.Lock()
	defer a.rlMu.Unlock()

	entry, exists := a.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(1, 3) // 1 per second, burst 3
		a.limiters[ip] = &clientLimiter{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (a *Admitter) cleanupLimiters() {
	for {
		time.Sleep(5 * time.Minute)
		a.rlMu.Lock()
		for ip, entry := range a.limiters {
			if time.Since(entry.lastSeen) > 10*time.Minute {
				delete(a.limiters, ip)
			}
		}
		a.rlMu.Unlock()
	}
}

func remoteHost(conn net.Conn) string {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return conn.RemoteAddr().String()
	}
	return host
}
