package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Messages carries every encoded log entry to the UI feeder or, in
// silent mode, to a stdout printer.
var Messages = make(chan []byte, 128)

const (
	ErrorLvl       = 0
	WarningLvl     = 1
	InfoLvl        = 2
	ActionLvl      = 3
	ButtonLvl      = 4
	NotAssignedLvl = 5
	AxisLvl        = 6

	DebugLvl = 378
)

// Message classes, attached as a plain "level" field. The UI filters and
// colors entries by this field instead of zap's own severity.
var (
	Error       = zap.Int("level", ErrorLvl)
	Warning     = zap.Int("level", WarningLvl)
	Info        = zap.Int("level", InfoLvl)
	Action      = zap.Int("level", ActionLvl)
	Button      = zap.Int("level", ButtonLvl)
	NotAssigned = zap.Int("level", NotAssignedLvl)
	Axis        = zap.Int("level", AxisLvl)

	Debug = zap.Int("level", DebugLvl)
)

type chanWriter struct {
	sync.Mutex
	ws zapcore.WriteSyncer
}

func (w *chanWriter) Write(p []byte) (n int, err error) {
	w.Lock()
	var newSlice = make([]byte, len(p))
	copy(newSlice, p)
	Messages <- newSlice
	w.Unlock()
	return len(p), nil
}

func (w *chanWriter) Sync() error {
	w.Lock()
	err := w.ws.Sync()
	w.Unlock()
	return err
}

func GetLogger() *zap.Logger {
	writer := &chanWriter{}
	cfg := zap.NewProductionEncoderConfig()
	cfg.SkipLineEnding = true
	cfg.EncodeTime = zapcore.EpochNanosTimeEncoder
	cfg.LevelKey = ""
	encoder := zapcore.NewJSONEncoder(cfg)
	noSync := zapcore.Lock(writer)

	logger := zap.New(
		zapcore.NewCore(encoder, noSync, zap.DebugLevel),
		zap.AddCaller(),
	)

	return logger
}
