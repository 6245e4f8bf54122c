package main

import (
	"fmt"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"triviamaster/internal/discovery"
	"triviamaster/internal/game"
)

var heroNames = []string{
	"Superman", "Spiderman", "Ironman", "Batman", "Wonder Woman",
	"Captain America", "Thor", "Black Widow", "Hulk", "Flash",
	"Wolverine", "Aquaman", "Green Lantern", "Deadpool", "Black Panther",
	"Doctor Strange", "Captain Marvel", "Star-Lord", "Daredevil", "Ant-Man",
}

var answerTokens = []string{"T", "Y", "1", "t", "y", "F", "N", "0", "f", "n"}

func main() {
	_ = godotenv.Load()

	name := game.BotTag + heroNames[rand.Intn(len(heroNames))]
	fmt.Printf("%s started, listening for offer requests...\n", name)

	for {
		offer, serverIP, err := listenForOffer(13117)
		if err != nil {
			fmt.Printf("Error listening for offers: %v\n", err)
			time.Sleep(time.Second)
			continue
		}
		play(serverIP, offer, name)
		fmt.Println("Server disconnected, listening for offer requests...")
	}
}

// listenForOffer blocks until a valid offer datagram arrives on the
// discovery port. Garbage datagrams are skipped, not fatal.
func listenForOffer(port int) (discovery.Offer, net.IP, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: port})
	if err != nil {
		return discovery.Offer{}, nil, err
	}
	defer conn.Close()

	buf := make([]byte, 1024)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return discovery.Offer{}, nil, err
		}
		offer, err := discovery.DecodeOffer(buf[:n])
		if err != nil {
			continue
		}
		return offer, addr.IP, nil
	}
}

// play joins one game and answers every question with a random token
// until the server announces game over or drops the connection.
func play(serverIP net.IP, offer discovery.Offer, name string) {
	fmt.Printf("Received offer from server %q at address %s, attempting to connect...\n",
		offer.ServerName, serverIP)

	conn, err := net.Dial("tcp4", fmt.Sprintf("%s:%d", serverIP, offer.StreamPort))
	if err != nil {
		fmt.Printf("Error connecting to server: %v\n", err)
		return
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(name)); err != nil {
		fmt.Printf("Error sending name: %v\n", err)
		return
	}

	buf := make([]byte, 1024)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		msg := string(buf[:n])
		fmt.Println(msg)

		if strings.Contains(msg, "Game Over!") {
			return
		}
		if strings.Contains(msg, "Welcome") || strings.Contains(msg, "Round") ||
			strings.Contains(msg, "Invalid") {
			tok := answerTokens[rand.Intn(len(answerTokens))]
			fmt.Println(tok)
			if _, err := conn.Write([]byte(tok)); err != nil {
				return
			}
		}
	}
}
