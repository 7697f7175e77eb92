package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

var version = "0.1.0"

var debugEnabled bool

// warn prints a diagnostic to stderr.
func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "sc2remap: "+format+"\n", args...)
}

// dbg prints a diagnostic only when -debug is set.
func dbg(format string, args ...any) {
	if debugEnabled {
		fmt.Printf("sc2remap: "+format+"\n", args...)
	}
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "sc2remap")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sc2remap")
}

func run(configPath string, usePidfile bool) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rules, err := cfg.Rules()
	if err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}

	if usePidfile {
		pidfile, err := AcquirePidfile(defaultPidfilePath())
		if err != nil {
			return err
		}
		defer pidfile.Release()
	}

	devices, err := FindDevices(cfg, nil)
	if err != nil {
		if err == ErrNoKeyboard {
			return fmt.Errorf("%w\nMake sure you are in the 'input' group:\n  sudo usermod -aG input $USER\nThen log out and back in", err)
		}
		return err
	}
	defer devices.Close()

	if name, err := devices.Keyboard.Name(); err == nil {
		fmt.Printf("sc2remap: keyboard: %s\n", name)
	}
	if devices.Mouse == nil {
		warn("no mouse found, scroll remap disabled")
	} else if name, err := devices.Mouse.Name(); err == nil {
		fmt.Printf("sc2remap: mouse: %s\n", name)
	}

	fmt.Println("sc2remap: waiting for a key release before grabbing the keyboard...")
	if err := acquireKeyboard(devices.Keyboard); err != nil {
		return err
	}
	defer devices.Keyboard.Ungrab()

	sink, err := CreateSink(cfg.DeviceName)
	if err != nil {
		return err
	}
	defer sink.Close()

	// Clean shutdown on SIGINT/SIGTERM: the grab must be dropped or the
	// physical keyboard stays dead until the device is closed by the OS.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nsc2remap: shutting down")
		devices.Keyboard.Ungrab()
		devices.Close()
		sink.Close()
		os.Exit(0)
	}()

	reload, err := watchConfig(configPath)
	if err != nil {
		warn("config watch unavailable: %v", err)
		reload = nil
	}

	fmt.Printf("sc2remap: remapping %s -> last key, wheel -> %s/%s\n",
		keyName(rules.Grave), keyName(rules.PageUp), keyName(rules.PageDown))

	var mouse eventReader
	if devices.Mouse != nil {
		mouse = devices.Mouse
	}
	return runLoop(devices.Keyboard, mouse, sink, NewRemapper(rules), reload)
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "init" {
		dir := configDir()
		fmt.Printf("sc2remap: initializing config in %s\n", dir)
		if err := initConfig(dir); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("sc2remap %s\n", version)
		return
	}

	configPath := flag.String("config", filepath.Join(configDir(), "config.yml"), "path to the config file")
	debug := flag.Bool("debug", false, "print emitted events")
	noPidfile := flag.Bool("no-pidfile", false, "skip the single-instance lock")
	flag.Parse()
	debugEnabled = *debug

	if err := run(*configPath, !*noPidfile); err != nil {
		fmt.Fprintf(os.Stderr, "sc2remap: %v\n", err)
		os.Exit(1)
	}
}
