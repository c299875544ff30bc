// Command yaffe-helper does the work the front-end cannot do from inside
// its own process.
//
//	yaffe-helper update <patch> <app>   replace app with patch, then start it
//	yaffe-helper webview <url>          show url in the system browser
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/user-none/yaffe/launch"
	"github.com/user-none/yaffe/updater"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: yaffe-helper update <patch> <app>")
	fmt.Fprintln(os.Stderr, "       yaffe-helper webview <url>")
	os.Exit(2)
}

func main() {
	log.SetPrefix("yaffe-helper: ")
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "update":
		if len(os.Args) != 4 {
			usage()
		}
		update(os.Args[2], os.Args[3])
	case "webview":
		if len(os.Args) != 3 {
			usage()
		}
		webview(os.Args[2])
	default:
		usage()
	}
}

func update(patch, app string) {
	if err := updater.Install(patch, app); err != nil {
		log.Fatalf("Failed to install update: %v", err)
	}
	if _, err := launch.Start(filepath.Base(app), app, nil); err != nil {
		log.Fatalf("Failed to restart %s: %v", app, err)
	}
}

// webview hands the URL to the desktop's default browser and waits for the
// opener to return.
func webview(url string) {
	var (
		path string
		args []string
	)
	switch runtime.GOOS {
	case "windows":
		path, args = "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		path, args = "open", []string{url}
	default:
		path, args = "xdg-open", []string{url}
	}
	p, err := launch.Start("webview", path, args)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", url, err)
	}
	<-p.Done()
	if err := p.Err(); err != nil {
		log.Fatalf("Failed to open %s: %v", url, err)
	}
}
