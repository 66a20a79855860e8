// Package printer sends ESC/POS receipts to a thermal printer over USB or
// TCP.
package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// Printer accepts a finished ESC/POS job.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	Available(ctx context.Context) bool
	Name() string
}

// USB writes each job to a device file such as /dev/usb/lp0.
type USB struct {
	path string
}

func NewUSB(devicePath string) *USB {
	return &USB{path: devicePath}
}

func (p *USB) Print(_ context.Context, data []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *USB) Available(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *USB) Name() string { return "usb:" + p.path }

// Network dials a raw TCP printer port (usually 9100) per job.
type Network struct {
	address string
	timeout time.Duration
}

func NewNetwork(address string, timeout time.Duration) *Network {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Network{address: address, timeout: timeout}
}

func (p *Network) Print(ctx context.Context, data []byte) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(2 * p.timeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *Network) Available(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *Network) Name() string { return "network:" + p.address }

// Spool keeps jobs in memory. It backs deployments without a printer and
// tests that inspect what would have been printed.
type Spool struct {
	mu   sync.Mutex
	jobs [][]byte
}

func NewSpool() *Spool {
	return &Spool{}
}

func (p *Spool) Print(_ context.Context, data []byte) error {
	job := make([]byte, len(data))
	copy(job, data)

	p.mu.Lock()
	p.jobs = append(p.jobs, job)
	p.mu.Unlock()
	return nil
}

func (p *Spool) Available(context.Context) bool { return true }

func (p *Spool) Name() string { return "spool" }

// Jobs returns the jobs printed so far, oldest first.
func (p *Spool) Jobs() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.jobs))
	copy(out, p.jobs)
	return out
}

// New picks a printer by type: "usb", "network" or "none".
func New(printerType, usbPath, address string, timeout time.Duration) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: usb path is required for usb printers")
		}
		return NewUSB(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printers")
		}
		return NewNetwork(address, timeout), nil
	case "none", "":
		return NewSpool(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network or none)", printerType)
	}
}
