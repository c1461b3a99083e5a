package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/awesome-gocui/gocui"
	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"github.com/code-monet/JoystickGremlin/internal/pkg/remap"
	"github.com/code-monet/JoystickGremlin/internal/pkg/utils"
	"github.com/logrusorgru/aurora"
)

var log = logger.GetLogger()

func FanOut[T any](input <-chan T) (<-chan T, <-chan T) {
	size := cap(input)
	if size == 0 {
		// at least size of 1 to prevent from output channels blocking by each other
		// also to keep running just one goroutine
		size = 1
	}
	var output1 = make(chan T, size)
	var output2 = make(chan T, size)

	go func() {
		for v := range input {
			output1 <- v
			output2 <- v
		}
		close(output1)
		close(output2)
	}()
	return output1, output2
}

func handleSigs(wg *sync.WaitGroup, sigs <-chan os.Signal, cancel func(), server *http.Server, g *gocui.Gui) {
	defer wg.Done()
	var counter int
	for sig := range sigs {
		if counter > 0 {
			fmt.Println("Dirty exit")
			os.Exit(1)
		}
		log.Info(fmt.Sprintf("signal received: %v", sig), logger.Debug)
		cancel()
		if server != nil {
			err := server.Close()
			if err != nil {
				log.Info(fmt.Sprintf("failed to close server: %v", err), logger.Warning)
			}
		}
		if *ui {
			g.Close()
		}
		counter++
	}
}

func runUI(cfg GremlinConfig, ui bool, sigs chan os.Signal) *gocui.Gui {
	var g *gocui.Gui
	if ui {
		var err error
		g, err = GetCli()
		if err != nil {
			panic(err)
		}

		go func() {
			if err := g.MainLoop(); err != nil {
				if err != gocui.ErrQuit {
					panic(err)
				}
				g.Close()
				sigs <- syscall.SIGINT // pretend that we received signal when exited from gui
			}
			g.Close()
		}()

		go func() {
			for {
				g.Update(Layout)
				time.Sleep(cfg.Gremlin.LogViewRate)
			}
		}()

		time.Sleep(time.Millisecond * 500) // waiting for view init
	}
	return g
}

func runProfileServer(wg *sync.WaitGroup) *http.Server {
	var server *http.Server
	if *pprofServer {
		addr := "0.0.0.0:8080"
		log.Info(fmt.Sprintf("profiling enabled and hosted on %s", addr), logger.Info)
		server = &http.Server{Addr: addr, Handler: nil}
		wg.Add(1)
		go func() {
			log.Info(fmt.Sprintf("profiling server exited: %v", server.ListenAndServe()), logger.Info)
			wg.Done()
		}()
	}
	return server
}

var (
	pprofServer = flag.Bool("pprof", false, "runs web server for performance profiling (go tool pprof)")
	grab        = flag.Bool("grab", false, "grab input devices for exclusive usage, applications see only virtual devices")
	ui          = flag.Bool("ui", false, "engage debug ui")
	force256    = flag.Bool("256", false, "force 256 color mode")
	nocolor     = flag.Bool("nocolor", false, "disable color")
	logLevel    = flag.Int("loglevel", 3,
		"logging level, each level enables additional information class (0-4, default: 3)\n"+
			"more verbose levels may slightly impact overall performance, try to not go beyond 3 when not necessary\n"+
			"\navailable options:\n"+
			"0: general info (eg. device appearance status)\n"+
			"1: action events (mode_up, mode_down etc.)\n"+
			"2: button events (gamepad buttons passed through to the virtual device)\n"+
			"3: button events not assigned to any action\n"+
			"4: axis events (shaped and passed through)",
	)
	silent = flag.Bool("silent", false, "no output logging, best performance")
)

func main() {
	flag.Parse()
	*logLevel += 2

	if *force256 == true {
		os.Setenv("TERM", "xterm-256color")
	}
	createConfigDirectoryIfNeeded()

	var cfg = LoadGremlinConfig("./gremlin-config/gremlin.config")
	log.Info(fmt.Sprintf("Gremlin config: %+v", cfg), logger.Debug)

	var sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())

	g := runUI(cfg, *ui && !*silent, sigs)

	// this wait-group has to be propagated everywhere where usual logging appear
	wg := sync.WaitGroup{}

	server := runProfileServer(&wg)

	wg.Add(1)
	go handleSigs(&wg, sigs, cancel, server, g)

	var monitorEvents = make(chan remap.Event, 64)
	monitorFan := utils.NewDynamicFanOut(monitorEvents)

	devices := newDeviceRegistry()

	colors := cfg.UI.Colors && !*nocolor

	if *ui && !*silent {
		go logView(g, colors, *logLevel, cfg.Gremlin.LogBufferSize)
		go overviewView(g, colors, devices, monitorFan)
		go curveView(g, colors, devices)
	} else {
		go func() {
			if *silent {
				for range logger.Messages {
				}
			} else {
				fmt.Printf("for nicer output use -ui flag\n")
				au := aurora.NewAurora(colors)
				for data := range logger.Messages {
					msg, err := unpack(data)
					if err != nil {
						fmt.Printf("%s\n", string(data))
						continue
					}
					m := prepareString(msg, au, -1, *logLevel)
					if m != "" {
						fmt.Printf("%s\n", m)
					}
				}
			}

		}()
	}

	runManager(ctx, cfg, *grab, *silent, devices, monitorEvents)

	log.Info(fmt.Sprintf("waiting..."), logger.Debug)
	close(sigs)
	close(monitorEvents)

	// closing logger can be safely invoked only when all internally running
	// goroutines (that may emit logs) are done
	wg.Wait()
	close(logger.Messages)
}
