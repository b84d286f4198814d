package uci

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidCommand is returned for input that is not a recognised command.
	ErrInvalidCommand = errors.New("uci: invalid command")

	errQuit = errors.New("quit")
)

const (
	fenPattern  = `(?:[rnbqkpRNBQKP1-8]{1,8}/){7}[rnbqkpRNBQKP1-8]{1,8} [wb] (?:-|[KQkq]{1,4}) (?:-|[a-h][36]) \d+ \d+`
	movePattern = `[a-h][1-8][a-h][1-8][nbrqNBRQ]?`
)

// Every accepted command matches exactly one of these.
var commandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:uci|isready|ucinewgame|stop|ponderhit|quit|d)$`),
	regexp.MustCompile(`^debug (?:on|off)$`),
	regexp.MustCompile(`^setoption name [[:word:]]+(?: [[:word:]]+)*(?: value \S+)?$`),
	regexp.MustCompile(`^position (?:startpos|fen ` + fenPattern + `)(?: moves(?: ` + movePattern + `)*)?$`),
	regexp.MustCompile(`^go(?: infinite| (?:wtime|btime|winc|binc) -?\d+| (?:movestogo|depth|nodes|movetime) \d+)*$`),
	regexp.MustCompile(`^perft \d+$`),
}

// Validate normalises whitespace in line and checks it against the known
// commands. The normalised command is returned on success.
func Validate(line string) (string, error) {
	cmd := strings.Join(strings.Fields(line), " ")
	for _, re := range commandPatterns {
		if re.MatchString(cmd) {
			return cmd, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCommand, cmd)
}
