package checkout

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener shows a checkout URL to the buyer, usually in a browser.
type Opener interface {
	Open(url string) error
}

type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

// BrowserOpener launches the platform's default URL handler.
var BrowserOpener Opener = OpenerFunc(openBrowser)

// NopOpener leaves the URL for the UI to display.
var NopOpener Opener = OpenerFunc(func(string) error { return nil })

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go cmd.Wait()
	return nil
}
