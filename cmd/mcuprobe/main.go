package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/user-none/emtechnos/adapter"
	"github.com/user-none/emtechnos/emu"
	"github.com/user-none/emtechnos/logger"
)

func main() {
	list := flag.Bool("list", false, "list supported games")
	game := flag.String("game", "kuniokun", "game short name")
	send := flag.String("send", "", `plaintext command in hex, e.g. "40 00 03 01"`)
	romPath := flag.String("rom", "", "ROM set or MCU image (real MCU games only)")
	trace := flag.Bool("trace", false, "echo the MCU log to stderr")
	flag.Parse()

	if *trace {
		logger.SetEcho(os.Stderr)
	}

	if *list {
		printGames(os.Stdout)
		return
	}

	factory := &adapter.Factory{}
	board, err := factory.CreateBoard(*game, *romPath, nil)
	if err != nil {
		log.Fatal(err)
	}
	if *trace {
		board.SetOption("mcu_trace", "true")
	}

	g := board.Game()
	fmt.Printf("%s: %s, %s handshake, %s MCU\n", g.Name, g.Description, g.Handshake, g.Mode)
	if fw := board.Firmware(); fw != nil {
		fmt.Printf("firmware %s: %d bytes, crc %08x\n", g.Firmware.Name, len(fw), crc32.ChecksumIEEE(fw))
	}

	if *send == "" {
		return
	}

	cmd, err := parseCommand(*send)
	if err != nil {
		log.Fatalf("Invalid command: %v", err)
	}
	reply, err := runCommand(board, cmd)
	if err != nil {
		log.Fatal(err)
	}
	if len(reply) == 0 {
		fmt.Println("no reply")
		return
	}
	fmt.Printf("reply: % X\n", reply)
}

// printGames writes the game table.
func printGames(w io.Writer) {
	for _, g := range emu.Games() {
		parent := g.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(w, "%-10s %-10s %-12s %-9s %d  %s\n",
			g.Name, parent, g.Handshake, g.Mode, g.Year, g.Description)
	}
}

// parseCommand parses space separated hex bytes.
func parseCommand(s string) ([]byte, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	cmd := make([]byte, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimPrefix(f, "0x"), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("byte %d %q: %w", i, f, err)
		}
		cmd[i] = byte(v)
	}
	return cmd, nil
}

// runCommand sends cmd through the board's data port the way the main CPU
// does and collects the reply.
func runCommand(board *emu.Board, cmd []byte) ([]byte, error) {
	g := board.Game()
	sim := board.MCU().Simulator()
	if sim == nil {
		return nil, fmt.Errorf("%s: commands need a simulated MCU, this one is %s", g.Name, g.Mode)
	}

	board.ReadMain(g.Map.ResetRead)
	ks := sim.NewKeystream()
	for _, b := range ks.Encode(cmd) {
		board.WriteMain(g.Map.DataWrite, b)
	}

	var reply []byte
	for {
		v, _ := board.ReadMain(g.Map.DataRead)
		if sim.OutputLen() == 0 {
			return nil, nil
		}
		reply = append(reply, v)
		if sim.OutputCursor() >= sim.OutputLen() {
			return reply, nil
		}
	}
}
