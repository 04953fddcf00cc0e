package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kardianos/service"
	"github.com/quarry-io/deviceinfo/internal/agent"
	"github.com/quarry-io/deviceinfo/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// program adapts the agent to the service manager lifecycle
type program struct {
	configPath string
	agent      *agent.Agent
	errCh      chan error
}

// Start is called by the service manager; it must not block
func (p *program) Start(s service.Service) error {
	a, err := agent.New(p.configPath, version)
	if err != nil {
		return err
	}
	p.agent = a
	p.errCh = make(chan error, 1)

	go func() {
		p.errCh <- p.agent.Run()
	}()

	return nil
}

// Stop is called by the service manager on shutdown
func (p *program) Stop(s service.Service) error {
	if p.agent == nil {
		return nil
	}
	if err := p.agent.Shutdown(); err != nil {
		return err
	}
	// Wait for Run to return so in-flight work finishes
	select {
	case err := <-p.errCh:
		return err
	default:
		return nil
	}
}

func main() {
	configPath := flag.String("config", "", "path to config file (default: platform-specific)")
	svcAction := flag.String("service", "", "service action: install, uninstall, start, stop")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("deviceinfod %s\n", version)
		return
	}

	path := *configPath
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	svcConfig := &service.Config{
		Name:        "deviceinfod",
		DisplayName: "Device Info Agent",
		Description: "Collects device and application metadata snapshots and serves them over NATS",
		Arguments:   []string{"-config", path},
	}

	prg := &program{configPath: path}
	svc, err := service.New(prg, svcConfig)
	if err != nil {
		log.Fatalf("failed to create service: %v", err)
	}

	if *svcAction != "" {
		if err := service.Control(svc, *svcAction); err != nil {
			log.Fatalf("service %s failed: %v", *svcAction, err)
		}
		fmt.Printf("service %s: ok\n", *svcAction)
		return
	}

	// Run either under the service manager or interactively in the foreground
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "deviceinfod: %v\n", err)
		os.Exit(1)
	}
}
