package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/speng4096/go-buckethash"
)

// Config 新建散列表所需的参数
type Config struct {
	BucketCapacity int
	Bits           int
	P              uint
	Q              uint
}

func DefaultConfig() Config {
	return Config{
		BucketCapacity: 2,
		Bits:           2,
		P:              3,
		Q:              1,
	}
}

func (c Config) newTable() (*buckethash.HashTable, error) {
	return buckethash.New(c.BucketCapacity, c.Bits, buckethash.NewDoubleHashing(c.P, c.Q))
}

// state 命令循环持有的全部状态
type state struct {
	table *buckethash.HashTable
	out   io.Writer
}

func main() {
	config := DefaultConfig()
	flag.IntVar(&config.BucketCapacity, "capacity", config.BucketCapacity, "slots per bucket")
	flag.IntVar(&config.Bits, "bits", config.Bits, "table has 2^bits buckets")
	flag.UintVar(&config.P, "p", config.P, "double hashing parameter p")
	flag.UintVar(&config.Q, "q", config.Q, "double hashing parameter q")
	load := flag.String("load", "", "bulk-load records from file")
	flag.Parse()

	table, err := config.newTable()
	if err != nil {
		log.Fatalf("Error creating table: %v", err)
	}
	s := &state{table: table, out: os.Stdout}
	if *load != "" {
		processCommand(s, "load "+*load)
	}

	fmt.Println("Type 'help' for available commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "exit" || input == "quit" {
			break
		}
		processCommand(s, input)
	}
}

func processCommand(s *state, input string) {
	command, args, _ := strings.Cut(strings.TrimSpace(input), " ")
	args = strings.TrimSpace(args)
	fields := strings.Fields(args)

	switch strings.ToLower(command) {
	case "":
		return

	case "new":
		if len(fields) != 4 {
			fmt.Fprintln(s.out, "Usage: NEW capacity bits p q")
			return
		}
		config, err := parseConfig(fields)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		table, err := config.newTable()
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		if err := s.table.Close(); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		s.table = table
		fmt.Fprintf(s.out, "OK (%d buckets x %d slots)\n", table.TableSize(), table.BucketCapacity())

	case "load":
		if args == "" {
			fmt.Fprintln(s.out, "Usage: LOAD file")
			return
		}
		stats, err := s.table.LoadFile(args)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(s.out, "Inserted %d, duplicates %d, full %d, malformed %d\n",
			stats.Inserted, stats.Duplicates, stats.Full, stats.Malformed)

	case "insert":
		r, err := buckethash.ParseLine(args)
		if err != nil {
			fmt.Fprintln(s.out, "Usage: INSERT key,name,subject1 subject2 ...")
			return
		}
		switch err := s.table.Insert(r.Key, r); err {
		case nil:
			fmt.Fprintln(s.out, "OK")
		case buckethash.ErrExist:
			fmt.Fprintln(s.out, "Key already exists")
		case buckethash.ErrFull:
			fmt.Fprintln(s.out, "Table is full")
		default:
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}

	case "find":
		key, ok := parseKeyArg(s, fields, "Usage: FIND key")
		if !ok {
			return
		}
		if r, ok := s.table.Find(key); ok {
			fmt.Fprintln(s.out, r.String())
		} else {
			fmt.Fprintln(s.out, "Key not found")
		}

	case "delete":
		key, ok := parseKeyArg(s, fields, "Usage: DELETE key")
		if !ok {
			return
		}
		if err := s.table.Delete(key); err != nil {
			fmt.Fprintln(s.out, "Key not found")
		} else {
			fmt.Fprintln(s.out, "OK")
		}

	case "add":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "Usage: ADD key subject")
			return
		}
		key, ok := parseKeyArg(s, fields[:1], "Usage: ADD key subject")
		if !ok {
			return
		}
		if err := s.table.AddSubject(key, fields[1]); err != nil {
			fmt.Fprintln(s.out, "Key not found")
		} else {
			fmt.Fprintln(s.out, "OK")
		}

	case "remove":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "Usage: REMOVE key subject")
			return
		}
		key, ok := parseKeyArg(s, fields[:1], "Usage: REMOVE key subject")
		if !ok {
			return
		}
		if n, err := s.table.RemoveSubject(key, fields[1]); err != nil {
			fmt.Fprintln(s.out, "Key not found")
		} else {
			fmt.Fprintf(s.out, "Removed %d\n", n)
		}

	case "clear":
		if err := s.table.Clear(); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		} else {
			fmt.Fprintln(s.out, "OK")
		}

	case "count":
		fmt.Fprintf(s.out, "Keys: %d\n", s.table.KeyCount())

	case "size":
		fmt.Fprintf(s.out, "Buckets: %d\n", s.table.TableSize())

	case "print":
		if err := s.table.Dump(s.out); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}

	case "fill":
		fmt.Fprintf(s.out, "Fill ratio: %g\n", s.table.FillRatio())

	case "digest":
		fmt.Fprintf(s.out, "Digest: %016x\n", s.table.Digest())

	case "help":
		printHelp(s.out)

	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for available commands.")
	}
}

func parseKeyArg(s *state, fields []string, usage string) (buckethash.Key, bool) {
	if len(fields) != 1 {
		fmt.Fprintln(s.out, usage)
		return 0, false
	}
	k, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		fmt.Fprintln(s.out, usage)
		return 0, false
	}
	return buckethash.Key(k), true
}

func parseConfig(fields []string) (Config, error) {
	var values [4]uint64
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 31)
		if err != nil {
			return Config{}, errors.Wrapf(err, "invalid parameter %q", f)
		}
		values[i] = v
	}
	return Config{
		BucketCapacity: int(values[0]),
		Bits:           int(values[1]),
		P:              uint(values[2]),
		Q:              uint(values[3]),
	}, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Available commands:")
	fmt.Fprintln(w, "  NEW capacity bits p q          - Create a new table with 2^bits buckets")
	fmt.Fprintln(w, "  LOAD file                      - Bulk-load records (first line is a header)")
	fmt.Fprintln(w, "  INSERT key,name,subj1 subj2    - Insert a record")
	fmt.Fprintln(w, "  FIND key                       - Show a record")
	fmt.Fprintln(w, "  DELETE key                     - Delete a record")
	fmt.Fprintln(w, "  ADD key subject                - Add a subject to a record")
	fmt.Fprintln(w, "  REMOVE key subject             - Remove a subject from a record")
	fmt.Fprintln(w, "  CLEAR                          - Remove all records")
	fmt.Fprintln(w, "  COUNT                          - Show number of keys")
	fmt.Fprintln(w, "  SIZE                           - Show number of buckets")
	fmt.Fprintln(w, "  PRINT                          - Print all buckets")
	fmt.Fprintln(w, "  FILL                           - Show fill ratio")
	fmt.Fprintln(w, "  DIGEST                         - Show a checksum of the live records")
	fmt.Fprintln(w, "  HELP                           - Show this help")
	fmt.Fprintln(w, "  EXIT/QUIT                      - Exit the program")
}
