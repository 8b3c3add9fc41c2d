package radio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"

	"github.com/srg/lantern/internal/groutine"
)

// bleScanner drives a go-ble device. The blocking ble.Device.Scan call runs
// in its own goroutine; Stop cancels it and waits for it to drain.
type bleScanner struct {
	dev    ble.Device
	logger *logrus.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewBLEScanner opens the platform BLE adapter. An unavailable or disabled
// adapter surfaces here, before any scan is attempted.
func NewBLEScanner(logger *logrus.Logger) (Scanner, error) {
	if logger == nil {
		logger = logrus.New()
	}

	dev, err := newDevice()
	if err != nil {
		return nil, fmt.Errorf("failed to open BLE adapter: %w", err)
	}

	return &bleScanner{dev: dev, logger: logger}, nil
}

func (s *bleScanner) Start(h Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return errors.New("scan already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	groutine.Go(ctx, "radio-scan", func(ctx context.Context) {
		defer close(done)
		err := s.dev.Scan(ctx, true, func(adv ble.Advertisement) {
			h(Detection{
				Payload: rawFrame(adv),
				RSSI:    adv.RSSI(),
				Address: adv.Addr().String(),
			})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.WithError(err).Error("BLE scan terminated unexpectedly")
		}
	})

	return nil
}

// Stop cancels the running scan without waiting for the scan goroutine to
// drain. Callers may invoke Stop from a detection-handling context; waiting
// here could deadlock against an in-flight handler call.
func (s *bleScanner) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

// Close cancels any running scan, waits for delivery to cease and releases
// the adapter. After Close returns, the handler is never called again.
func (s *bleScanner) Close() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return s.dev.Stop()
}

// rawFrame rebuilds the advertising-report byte layout the frame decoder is
// defined over. go-ble hands out manufacturer data with its AD header
// already stripped, so the flags structure and the manufacturer-data header
// are restored in front of it.
func rawFrame(adv ble.Advertisement) []byte {
	mfg := adv.ManufacturerData()
	frame := make([]byte, 0, len(mfg)+5)
	frame = append(frame, 0x02, 0x01, 0x06)
	frame = append(frame, byte(len(mfg)+1), 0xff)
	return append(frame, mfg...)
}
