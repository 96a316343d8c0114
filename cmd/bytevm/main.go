// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/bytevm/emulator"
	"github.com/ezrec/bytevm/image"
	"github.com/ezrec/bytevm/internal"
	"github.com/ezrec/bytevm/snapshot"
	"github.com/ezrec/bytevm/translate"
	"github.com/ezrec/bytevm/vm"

	"golang.org/x/text/language"
)

func main() {
	var compile string
	var program string
	var save string
	var stackSize int
	var budget uint
	var snapshotPath string
	var name string
	var resume bool
	var verbose bool
	var input string
	var output string
	var digest bool
	var defines bool
	var lang string

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&program, "p", "", "program image to run (.zst for compressed)")
	flag.StringVar(&save, "o", "", "Save program image, do not execute (.zst to compress)")
	flag.IntVar(&stackSize, "stack", vm.STACK_DEFAULT, "Stack size in bytes")
	flag.UintVar(&budget, "budget", 0, "Instruction budget, 0 runs until done")
	flag.StringVar(&snapshotPath, "snapshot", "", "Snapshot database")
	flag.StringVar(&name, "name", "main", "Snapshot name")
	flag.BoolVar(&resume, "resume", false, "Resume from the named snapshot")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&input, "i", "-", "Console input")
	flag.StringVar(&output, "out", "-", "Console output")
	flag.BoolVar(&digest, "digest", false, "Print the program image digest")
	flag.BoolVar(&defines, "defines", false, "Print the assembler predefines")
	flag.StringVar(&lang, "lang", "", "Message language (BCP 47), default from the environment")

	flag.Parse()

	log.SetFlags(0)

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		tag, err := language.Parse(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
		translate.SetLanguage(tag)
	}

	if defines {
		for key, value := range internal.IterSeq2Sorted(emulator.Defines()) {
			fmt.Printf("%v = %v\n", key, value)
		}
		return
	}

	var prog *vm.Program
	var img *image.Image
	var err error

	switch {
	case len(compile) != 0:
		// Compile a new instruction stream.
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		prog, err = emulator.Assemble(inf, verbose)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		img, err = image.New(prog.Binary())
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(program) != 0:
		img, err = image.Load(program)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
		// No listing, so the whole image is line zero.
		prog = &vm.Program{Lines: []vm.Line{{Bytes: img.Code}}}
	default:
		log.Fatalf("%v: one of -c or -p is required", os.Args[0])
	}

	if digest {
		fmt.Println(img.Digest())
	}

	if len(save) != 0 {
		err = img.Save(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	emu, err := emulator.NewEmulator(prog, emulator.Config{
		StackSize: stackSize,
		Verbose:   verbose,
	})
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if input == "-" {
		emu.Console.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Console.Input = inf
	}

	if output == "-" {
		emu.Console.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Console.Output = ouf
	}
	emu.Pins.Output = emu.Console.Output

	var store *snapshot.Store
	if len(snapshotPath) != 0 {
		store, err = snapshot.Open(snapshotPath)
		if err != nil {
			log.Fatalf("%v: %v", snapshotPath, err)
		}
		defer store.Close()
		store.Verbose = verbose
	}

	if resume {
		if store == nil {
			log.Fatalf("%v: -resume needs -snapshot", os.Args[0])
		}
		state, err := store.Load(name, img.Digest())
		if err != nil {
			log.Fatalf("%v: %v: %v", snapshotPath, name, err)
		}
		err = emu.Restore(state)
		if err != nil {
			log.Fatalf("%v: %v: %v", snapshotPath, name, err)
		}
	}

	sch := &emulator.Scheduler{Verbose: verbose, Quantum: uint32(budget)}
	task, err := sch.Add(name, emu)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if budget > 0 {
		sch.Step()
	} else {
		err = sch.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal(err)
		}
	}

	if task.Err != nil {
		log.Fatal(task.Err)
	}

	if !task.Done() {
		log.Printf("%v: paused at %04x after %d instructions", name, emu.Ip(), emu.Instructions())
		if store != nil {
			id, err := store.Save(name, img.Digest(), emu.Snapshot())
			if err != nil {
				log.Fatalf("%v: %v: %v", snapshotPath, name, err)
			}
			log.Printf("%v: saved %v", name, id)
		}
	}
}
