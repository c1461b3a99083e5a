package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/awesome-gocui/gocui"
	"github.com/code-monet/JoystickGremlin/internal/pkg/logger"
	"github.com/code-monet/JoystickGremlin/internal/pkg/profile"
	"github.com/code-monet/JoystickGremlin/internal/pkg/remap"
	"github.com/code-monet/JoystickGremlin/internal/pkg/utils"
	"github.com/holoplot/go-evdev"
	"github.com/logrusorgru/aurora"
	"github.com/lucasb-eyer/go-colorful"
)

func overviewView(
	g *gocui.Gui, colors bool,
	devices *deviceRegistry,
	fan *utils.DynamicFanOut[remap.Event],
) {
	view, err := g.View(ViewOverview)
	if err != nil {
		panic(err)
	}

	au := aurora.NewAurora(colors)

	// the fan tap has to be drained continuously, a stalled tap would
	// block the whole event pipeline
	var mutex sync.Mutex
	var lastShaped = make(map[string]remap.Event)

	_, tap, err := fan.SpawnOutput()
	if err == nil {
		go func() {
			for ev := range tap {
				if ev.Passthrough || ev.Type != evdev.EV_ABS {
					continue
				}
				mutex.Lock()
				lastShaped[ev.Source.Name] = ev
				mutex.Unlock()
			}
		}()
	}

	for {
		var viewData []string

		ptrs := devices.Sorted()

		x, y := view.Size()

		for _, d := range ptrs {
			dname := d.InputDevice.Name
			dtype := d.InputDevice.DeviceType.String()
			typeSep := 8 - len(dtype)
			if typeSep < 0 {
				typeSep = 0
			}

			header := fmt.Sprintf(
				"%s: %s, handlers: %2d",
				strings.Repeat(" ", typeSep)+colorForString(au, dtype).String(),
				colorForString(au, dname).String(),
				len(d.InputDevice.Handlers),
			)

			headerFreeSpace := x - rawStringLen(header)
			if headerFreeSpace < 0 {
				headerFreeSpace = 0
			}

			state := d.State()

			mutex.Lock()
			last, ok := lastShaped[dname]
			mutex.Unlock()

			lastInfo := "-"
			if ok {
				lastInfo = fmt.Sprintf("%s %+.2f", profile.AxisName(last.Code), last.Shaped)
			}

			description := fmt.Sprintf(
				"└ mode: %s (%d modes), axes: %d, shaped events: %d, last: %s",
				colorForString(au, state.Mode).String(),
				state.Modes,
				state.Axes,
				state.Shaped,
				lastInfo,
			)
			descriptionFreeSpace := x - rawStringLen(description)
			if descriptionFreeSpace < 0 {
				descriptionFreeSpace = 0
			}

			viewData = append(viewData, fmt.Sprintf("%s%s", header, strings.Repeat(" ", headerFreeSpace)))
			viewData = append(viewData, fmt.Sprintf("%s%s", description, strings.Repeat(" ", descriptionFreeSpace)))
		}

		view.Rewind()
		for i := 0; i < y; i++ {
			if i > len(viewData)-1 {
				data := strings.Repeat(" ", x)
				view.Write([]byte(data))
				view.Write([]byte{'\n'})
				continue
			}

			view.Write([]byte(viewData[i]))
			view.Write([]byte{'\n'})
		}
		time.Sleep(time.Millisecond * 500)
	}
}

// axisColor spreads axis plots over the hue circle and maps them onto
// the 6x6x6 terminal cube.
func axisColor(i, n int) aurora.Color {
	if n < 1 {
		n = 1
	}
	c := colorful.Hsv(float64(i)*360.0/float64(n), 0.9, 0.9)
	r := uint8(c.R*5 + 0.5)
	g := uint8(c.G*5 + 0.5)
	b := uint8(c.B*5 + 0.5)
	return color(r, g, b)
}

func curveView(g *gocui.Gui, colors bool, devices *deviceRegistry) {
	view, err := g.View(ViewCurves)
	if err != nil {
		panic(err)
	}

	au := aurora.NewAurora(colors)

	for {
		x, y := view.Size()

		view.Rewind()

		ptrs := devices.Sorted()
		if len(ptrs) == 0 || x < 4 || y < 3 {
			view.Write([]byte("no device"))
			view.Write([]byte{'\n'})
			time.Sleep(time.Millisecond * 500)
			continue
		}

		d := ptrs[0]
		state := d.State()
		prof := d.Profile()

		var axes map[evdev.EvCode]profile.Axis
		for _, m := range prof.Modes {
			if m.Name == state.Mode {
				axes = m.Axes
				break
			}
		}

		var codes []evdev.EvCode
		for code := range axes {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

		legend := ""
		for i, code := range codes {
			name := profile.AxisName(code)
			legend += " " + au.Reset(name).Colorize(axisColor(i, len(codes))).String()
		}
		if legend == "" {
			legend = " no shaped axes"
		}

		rows := y - 1
		grid := make([][]string, rows)
		for r := range grid {
			grid[r] = make([]string, x)
			for c := range grid[r] {
				grid[r][c] = " "
			}
		}

		// zero line
		zeroRow := (rows - 1) / 2
		for c := 0; c < x; c++ {
			grid[zeroRow][c] = au.Reset("·").Colorize(gray(5)).String()
		}

		for i, code := range codes {
			dotColor := axisColor(i, len(codes))
			for c := 0; c < x; c++ {
				in := -1.0 + 2.0*float64(c)/float64(x-1)
				out := axes[code].Curve.Eval(in)
				if out > 1 {
					out = 1
				} else if out < -1 {
					out = -1
				}
				r := int((1.0-out)/2.0*float64(rows-1) + 0.5)
				grid[r][c] = au.Reset("•").Colorize(dotColor).String()
			}
		}

		view.Write([]byte(legend))
		view.Write([]byte{'\n'})
		for _, row := range grid {
			view.Write([]byte(strings.Join(row, "")))
			view.Write([]byte{'\n'})
		}

		time.Sleep(time.Millisecond * 500)
	}
}

func logView(g *gocui.Gui, color bool, logLevel, bufSize int) {
	feeder, err := NewFeeder(g, ViewLogs, logLevel, aurora.NewAurora(color))
	if err != nil {
		panic(err)
	}

	buf := newLogBuffer(bufSize)

	var closed bool
	var newMessage = make(chan bool, 1)
	var sizeChange = make(chan bool, 1)

	go func() {
		var lastX, lastY int
		for {
			if closed {
				close(sizeChange)
				return
			}
			x, y := feeder.view.Size()
			if x != lastX || y != lastY {
				newMessage <- true
				lastX = x
				lastY = y
			}
			time.Sleep(time.Millisecond * 100)
		}

	}()

	go func() {
		for msg := range logger.Messages {
			buf.WriteMessage(msg)
			select {
			case newMessage <- true:
			case <-time.After(time.Millisecond * 1):
				continue
			}

		}
		close(newMessage)
		closed = true
	}()

	for {
		select {
		case <-sizeChange:
		case <-newMessage:
		}
		if closed {
			break
		}
		feeder.view.Rewind()
		_, y := feeder.view.Size()
		lastMessages := buf.ReadLastMessages(y)
		for _, msg := range lastMessages {
			feeder.Write(msg)
		}
	}
}
