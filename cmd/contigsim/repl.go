package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/contigsim/command"
	"github.com/vkngwrapper/contigsim/sim"
)

const (
	memoryPrompt  = "Enter the initial amount of memory: "
	commandPrompt = "allocator>"

	invalidAmount = "Invalid amount. Please enter a positive integer value."
	invalidInput  = "Invalid input. Please enter a positive integer value."
)

// session is one interactive run: the memory prompt followed by the command loop
type session struct {
	in        io.Reader
	out       io.Writer
	logger    *slog.Logger
	options   sim.CreateOptions
	jsonStats bool
}

// run drives the session until X or end of input. When totalSize is 0 the user is asked for
// a size in megabytes first.
func (s *session) run(totalSize int) error {
	scanner := bufio.NewScanner(s.in)

	if totalSize == 0 {
		var err error
		totalSize, err = s.readMemory(scanner)
		if err != nil {
			return err
		}
	}

	simulator, err := sim.New(s.logger, totalSize, s.options)
	if err != nil {
		return err
	}

	interpreter := &command.Interpreter{
		Allocator: simulator,
		Out:       s.out,
		JSONStats: s.jsonStats,
	}

	for {
		fmt.Fprint(s.out, commandPrompt)
		if !scanner.Scan() {
			// end of input is a quiet exit
			fmt.Fprintln(s.out)
			return errors.Wrap(scanner.Err(), "failed to read command")
		}

		if interpreter.Execute(scanner.Text()) {
			return nil
		}
	}
}

// readMemory prompts until the user enters a positive number of megabytes and returns it in
// bytes. Only the first token on the line is read.
func (s *session) readMemory(scanner *bufio.Scanner) (int, error) {
	for {
		fmt.Fprint(s.out, memoryPrompt)
		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return 0, errors.Wrap(err, "no memory size entered")
		}

		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			fmt.Fprintln(s.out, invalidInput)
			continue
		}

		megabytes, err := strconv.ParseInt(tokens[0], 10, 32)
		if err != nil {
			fmt.Fprintln(s.out, invalidInput)
			continue
		}

		if megabytes <= 0 {
			fmt.Fprintln(s.out, invalidAmount)
			continue
		}

		return int(megabytes) << 20, nil
	}
}
