// Package shell is the interactive REPL backing the metacache CLI's
// shell subcommand, grounded on the teacher's executeInteractive /
// executeInteractiveFallback split: raw terminal mode when the
// terminal supports it (so Ctrl-C and friends don't leave the
// terminal in a bad state on exit), falling back to plain line
// buffering when it doesn't.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"metacache"
	"metacache/internal/logger"
)

// Config configures an interactive shell session.
type Config struct {
	Prompt string
}

// Run drives an interactive REPL against client, reading commands from
// stdin and printing responses to stdout until the user types
// "quit"/"exit" or sends EOF.
func Run(client *metacache.Client, cfg Config) error {
	if cfg.Prompt == "" {
		cfg.Prompt = "metacache> "
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Debugf("shell: raw mode unavailable, falling back to line mode: %v", err)
		return runLoop(client, cfg)
	}
	defer term.Restore(fd, oldState)

	return runLoop(client, cfg)
}

func runLoop(client *metacache.Client, cfg Config) error {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, "\r"+cfg.Prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(os.Stdout, "\rgoodbye")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			fmt.Fprintln(os.Stdout, "\rgoodbye")
			return nil
		}

		if err := dispatch(client, line); err != nil {
			fmt.Fprintf(os.Stderr, "\rerror: %v\r\n", err)
		}
	}
}

func dispatch(client *metacache.Client, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "version":
		v, err := client.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\r%s\r\n", v)
		return nil

	case "get":
		if len(fields) != 2 {
			return fmt.Errorf("usage: get <key>")
		}
		return runGet(client, fields[1])

	case "set":
		if len(fields) < 3 {
			return fmt.Errorf("usage: set <key> <value...>")
		}
		value := strings.Join(fields[2:], " ")
		return runSet(client, fields[1], []byte(value))

	case "del":
		if len(fields) != 2 {
			return fmt.Errorf("usage: del <key>")
		}
		return runDel(client, fields[1])

	case "help":
		fmt.Fprint(os.Stdout, "\rcommands: get <key>, set <key> <value...>, del <key>, version, quit\r\n")
		return nil

	default:
		return fmt.Errorf("unknown command %q (try get/set/del/version/quit)", fields[0])
	}
}

func runGet(client *metacache.Client, key string) error {
	if _, err := client.AddMGet([]byte(key), nil); err != nil {
		return err
	}
	if _, err := client.Finish(); err != nil {
		return err
	}
	kind, err := client.AwaitNext()
	if err != nil {
		return err
	}
	if kind.String() == "VA" {
		fmt.Fprintf(os.Stdout, "\r%q\r\n", client.GetData())
	} else {
		fmt.Fprintf(os.Stdout, "\r%s\r\n", kind)
	}
	return nil
}

func runSet(client *metacache.Client, key string, value []byte) error {
	if _, err := client.AddMSet([]byte(key), value, nil); err != nil {
		return err
	}
	if _, err := client.Finish(); err != nil {
		return err
	}
	kind, err := client.AwaitNext()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\r%s\r\n", kind)
	return nil
}

func runDel(client *metacache.Client, key string) error {
	if _, err := client.AddDelete([]byte(key)); err != nil {
		return err
	}
	if _, err := client.Finish(); err != nil {
		return err
	}
	kind, err := client.AwaitNext()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\r%s\r\n", kind)
	return nil
}

