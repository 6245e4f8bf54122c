package discovery

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"time"
)

// Offer datagram layout:
//
//	offset 0, 4 bytes: magic cookie
//	offset 4, 1 byte:  message type (0x02 = offer)
//	offset 5, 32 bytes: server name, space padded
//	offset 37, 2 bytes: stream port, big endian
const (
	OfferType     = 0x02
	nameFieldSize = 32
	OfferSize     = 4 + 1 + nameFieldSize + 2
)

var magicCookie = []byte{0xab, 0xcd, 0xdc, 0xba}

var (
	ErrTruncated = errors.New("discovery: datagram too short")
	ErrBadMagic  = errors.New("discovery: bad magic cookie")
	ErrBadType   = errors.New("discovery: not an offer message")
)

// Offer is the advertisement a server repeats while its join window is open.
type Offer struct {
	ServerName string
	StreamPort uint16
}

// Encode renders the offer as a fixed-size datagram payload.
func (o Offer) Encode() []byte {
	buf := make([]byte, 0, OfferSize)
	buf = append(buf, magicCookie...)
	buf = append(buf, OfferType)

	name := []byte(o.ServerName)
	if len(name) > nameFieldSize {
		name = name[:nameFieldSize]
	}
	buf = append(buf, name...)
	for i := len(name); i < nameFieldSize; i++ {
		buf = append(buf, ' ')
	}

	buf = append(buf, byte(o.StreamPort>>8), byte(o.StreamPort&0xff))
	return buf
}

// DecodeOffer validates magic cookie and message type before trusting
// the rest of the datagram.
func DecodeOffer(data []byte) (Offer, error) {
	if len(data) < OfferSize {
		return Offer{}, ErrTruncated
	}
	if !bytes.Equal(data[:4], magicCookie) {
		return Offer{}, ErrBadMagic
	}
	if data[4] != OfferType {
		return Offer{}, ErrBadType
	}

	name := string(bytes.TrimRight(data[5:5+nameFieldSize], " "))
	port := uint16(data[5+nameFieldSize])<<8 | uint16(data[5+nameFieldSize+1])
	return Offer{ServerName: name, StreamPort: port}, nil
}

// Broadcaster announces an offer to the local broadcast address at a
// fixed interval. No acknowledgment is expected; a missed datagram is
// corrected by the next tick.
type Broadcaster struct {
	payload  []byte
	addr     string
	interval time.Duration
}

func NewBroadcaster(offer Offer, discoveryPort int, interval time.Duration) *Broadcaster {
	return &Broadcaster{
		payload:  offer.Encode(),
		addr:     fmt.Sprintf("255.255.255.255:%d", discoveryPort),
		interval: interval,
	}
}

// Run sends the offer once per interval until stop closes. Send errors
// are logged and the loop keeps going; only stop ends it.
func (b *Broadcaster) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		b.send()
		select {
		case <-ticker.C:
		case <-stop:
			return
		}
	}
}

func (b *Broadcaster) send() {
	conn, err := net.Dial("udp4", b.addr)
	if err != nil {
		fmt.Printf("Error opening broadcast socket: %v\n", err)
		return
	}
	defer conn.Close()

	if _, err := conn.Write(b.payload); err != nil {
		fmt.Printf("Error broadcasting offer: %v\n", err)
	}
}

// LocalIP returns the machine's outbound IPv4 address, best effort.
// The probe address is never actually contacted.
func LocalIP() string {
	conn, err := net.Dial("udp4", "10.10.10.10:8080")
	if err != nil {
		return ""
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return ""
}
