package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lixenwraith/canvas-fx/fx"
	"github.com/lixenwraith/canvas-fx/network"
)

var (
	addrFlag   = flag.String("addr", "127.0.0.1:7777", "canvas-fx server address")
	senderFlag = flag.String("sender", "fx-send", "sender name attached to the packet")
	usersFlag  = flag.String("users", "", "comma-separated recipient allow-list (empty: everyone)")
	listFlag   = flag.Bool("list", false, "print the effect catalog and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: fx-send [flags] action [key=value ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *listFlag {
		printCatalog(os.Stdout)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	packet, err := buildPacket(flag.Arg(0), flag.Args()[1:], *senderFlag, *usersFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fx-send: %v\n", err)
		os.Exit(2)
	}

	cfg := network.DefaultConfig()
	cfg.Role = network.RoleClient
	cfg.Address = *addrFlag
	if err := send(cfg, packet); err != nil {
		fmt.Fprintf(os.Stderr, "fx-send: %v\n", err)
		os.Exit(1)
	}
}

// buildPacket encodes one effect request from command-line arguments
func buildPacket(action string, args []string, sender, users string) ([]byte, error) {
	a, ok := fx.ParseAction(action)
	if !ok {
		return nil, fmt.Errorf("%w: %q (see -list)", fx.ErrUnknownAction, action)
	}
	p, err := fx.ParseOptions(args)
	if err != nil {
		return nil, err
	}
	if users != "" {
		p[fx.KeyUsers] = fx.Payload{fx.KeyUsers: users}.Strings(fx.KeyUsers)
	}
	p[fx.KeySender] = sender
	return fx.EncodePacket(a, p)
}

// send connects as a client and broadcasts packet; Stop flushes it before hanging up
func send(cfg *network.Config, packet []byte) error {
	svc := network.NewService()
	if err := svc.Init(cfg); err != nil {
		return err
	}
	if err := svc.Start(); err != nil {
		return err
	}
	defer svc.Stop()

	return svc.Broadcast(packet)
}

func printCatalog(w io.Writer) {
	for _, e := range fx.Catalog() {
		names := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			if f.Default != nil {
				names = append(names, fmt.Sprintf("%s=%v", f.Name, f.Default))
			} else {
				names = append(names, f.Name)
			}
		}
		fmt.Fprintf(w, "%-16s %s\n", e.Name, strings.Join(names, " "))
	}
}
