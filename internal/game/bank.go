package game

import "math/rand"

// Bank is an immutable set of true/false statements.
type Bank struct {
	questions []Question
}

func NewBank(questions []Question) *Bank {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Bank{questions: qs}
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// Pick selects a question uniformly at random, with replacement.
func (b *Bank) Pick() Question {
	return b.questions[rand.Intn(len(b.questions))]
}

// DefaultQuestions is the built-in Olympics question set.
var DefaultQuestions = []Question{
	{"The Olympic Games originated in ancient Greece.", true},
	{"The Olympic rings symbolize the five continents of the world.", true},
	{"The Summer and Winter Olympics are held every four years, alternating between each other.", true},
	{"The Olympic flame is lit in Olympia, Greece, during the opening ceremony of each Olympics.", true},
	{"The first modern Olympic Games were held in Athens, Greece, in 1896.", true},
	{"Athletes from all over the world compete in the Paralympic Games immediately after the Olympic Games.", true},
	{"The Olympic motto is 'Faster, Higher, Stronger.'", true},
	{"Golf is one of the sports included in the Summer Olympics.", true},
	{"The Olympic Games were canceled during both World War I and World War II.", true},
	{"Tokyo hosted the Olympic Games in 1964 and 2020 (postponed to 2021 due to the COVID-19 pandemic).", true},
	{"The Olympic Games include both individual and team sports.", true},
	{"The Olympic torch relay precedes the opening ceremony and travels through various cities and countries.", true},
	{"The Olympic Games have been held in Israel.", false},
	{"The Olympic flag features six colors: blue, yellow, black, green, red, and white.", true},
	{"The ancient Olympic Games included only athletic events, such as running and wrestling.", true},
	{"The Olympic Village provides accommodations for athletes during the Games.", true},
	{"An Israeli athlete has never won an Olympic medal", false},
	{"Gymnastics is one of the oldest sports included in the modern Olympic Games.", true},
	{"The Olympic Games have been held in Asia more times than in any other continent.", true},
	{"The Olympic Games have always included a closing ceremony since their inception.", false},
	{"The Olympic Games have never been held in Africa.", false},
	{"The Olympic Creed states, 'The most important thing in the Olympic Games is to win.'", false},
	{"It is impossible for two athletes to win a gold medal together in the same competition at the Olympics", false},
	{"The Olympic Games were first televised in color during the 1972 Munich Olympics.", false},
	{"The Olympic Games have never been affected by weather conditions causing any delays.", false},
	{"Baseball has been a part of the Summer Olympics since the inception of the modern Games.", false},
	{"The Olympic Games have been hosted by fewer than 20 different countries.", false},
	{"The Olympic Games were first broadcast on television in the 1950s.", false},
	{"The Olympic torch has never been extinguished during the relay.", false},
	{"The Olympic Games have never been postponed due to non-political reasons.", false},
	{"The Olympic Games have always been held in the month of August.", false},
	{"The Olympic Games have never faced controversies over doping scandals.", false},
	{"Chess has been an official Olympic sport since the first modern Games.", false},
	{"The upcoming Summer Olympics will be held in Paris", true},
	{"Israel has never hosted an Olympic Games", true},
}
