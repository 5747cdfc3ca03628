package bot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ConsoleTransport prints text replies to a writer and saves images to a
// directory. Used for local development without a chat network connection.
type ConsoleTransport struct {
	out      io.Writer
	imageDir string
}

func NewConsoleTransport(out io.Writer, imageDir string) *ConsoleTransport {
	return &ConsoleTransport{out: out, imageDir: imageDir}
}

func (t *ConsoleTransport) SendText(ctx context.Context, chatID, text string) error {
	_, err := fmt.Fprintf(t.out, "[%s] %s\n", chatID, text)
	return err
}

func (t *ConsoleTransport) SendImage(ctx context.Context, chatID string, png []byte, caption string) error {
	name := fmt.Sprintf("label_%s_%d.png", chatID, time.Now().UnixMilli())
	path := filepath.Join(t.imageDir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	_, err := fmt.Fprintf(t.out, "[%s] %s -> %s\n", chatID, caption, path)
	return err
}
