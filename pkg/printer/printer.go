package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// Printer sends raw ESC/POS jobs to a ticket printer.
type Printer interface {
	// Print sends one job. The context bounds connection and write time.
	Print(ctx context.Context, data []byte) error
	// Status reports whether the device is reachable.
	Status(ctx context.Context) Status
	// Kind names the transport: usb, network, memory or none.
	Kind() string
}

// Status is what the register shows next to the printer icon.
type Status struct {
	Kind      string `json:"kind"`
	Target    string `json:"target,omitempty"`
	Connected bool   `json:"connected"`
}

// USB device file, e.g. /dev/usb/lp0

type usbPrinter struct {
	path string
	mu   sync.Mutex
}

// NewUSBPrinter creates a printer that writes to a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

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

func (p *usbPrinter) Status(_ context.Context) Status {
	_, err := os.Stat(p.path)
	return Status{Kind: p.Kind(), Target: p.path, Connected: err == nil}
}

func (p *usbPrinter) Kind() string { return "usb" }

// Raw TCP on port 9100, e.g. 192.168.1.100:9100

type networkPrinter struct {
	address string
	dialer  net.Dialer
}

// NewNetworkPrinter creates a printer that connects via TCP.
// Address should include port, e.g. "192.168.1.100:9100".
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address: address,
		dialer:  net.Dialer{Timeout: 5 * time.Second},
	}
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Status(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return Status{Kind: p.Kind(), Target: p.address}
	}
	conn.Close()
	return Status{Kind: p.Kind(), Target: p.address, Connected: true}
}

func (p *networkPrinter) Kind() string { return "network" }

// No printer configured

type nullPrinter struct{}

// NewNullPrinter creates a no-op printer for registers without hardware.
func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return nil }

func (p nullPrinter) Status(context.Context) Status { return Status{Kind: p.Kind()} }

func (nullPrinter) Kind() string { return "none" }

// MemoryPrinter keeps every job in memory. It backs ticket previews and tests.
type MemoryPrinter struct {
	mu   sync.Mutex
	jobs [][]byte
}

// NewMemoryPrinter creates an empty MemoryPrinter.
func NewMemoryPrinter() *MemoryPrinter {
	return &MemoryPrinter{}
}

func (p *MemoryPrinter) Print(_ context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *MemoryPrinter) Status(context.Context) Status {
	return Status{Kind: p.Kind(), Connected: true}
}

func (p *MemoryPrinter) Kind() string { return "memory" }

// Jobs returns a copy of the printed jobs, oldest first.
func (p *MemoryPrinter) Jobs() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.jobs...)
}

// NewPrinterFromConfig creates the appropriate Printer based on type.
//
//	printerType: "usb", "network", "memory" or "none"
//	usbPath: device path for USB printers (e.g. "/dev/usb/lp0")
//	address: TCP address for network printers (e.g. "192.168.1.100:9100")
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBPrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(address), nil
	case "memory":
		return NewMemoryPrinter(), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, memory or none)", printerType)
	}
}
