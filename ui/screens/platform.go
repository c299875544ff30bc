package screens

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/sqweek/dialog"
	"github.com/user-none/yaffe/jobs"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/storage"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

type picked struct {
	box  *widget.TextBox
	path string
}

// Picker runs native file dialogs off the UI thread and hands the chosen
// path back on the next Update. Only one dialog is open at a time.
type Picker struct {
	results chan picked
	busy    atomic.Bool

	openFile func(title string) (string, error)
	openDir  func(title string) (string, error)
}

// NewPicker creates a picker backed by the system dialogs.
func NewPicker() *Picker {
	return &Picker{
		results: make(chan picked, 1),
		openFile: func(title string) (string, error) {
			return dialog.File().Title(title).Load()
		},
		openDir: func(title string) (string, error) {
			return dialog.Directory().Title(title).Browse()
		},
	}
}

// BrowseFile asks for a file and writes it into box.
func (p *Picker) BrowseFile(title string, box *widget.TextBox) {
	p.browse(p.openFile, title, box)
}

// BrowseDir asks for a folder and writes it into box.
func (p *Picker) BrowseDir(title string, box *widget.TextBox) {
	p.browse(p.openDir, title, box)
}

func (p *Picker) browse(open func(string) (string, error), title string, box *widget.TextBox) {
	if !p.busy.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.busy.Store(false)
		path, err := open(title)
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				log.Printf("Failed to open dialog: %v", err)
			}
			return
		}
		p.results <- picked{box: box, path: path}
	}()
}

// Update applies a finished pick, if any.
func (p *Picker) Update() {
	select {
	case r := <-p.results:
		r.box.SetText(r.path)
	default:
	}
}

// PlatformModal builds the add or edit platform form. Accepting it starts a
// scraper search; the result is handled by Scanner.PlatformFound.
func PlatformModal(st *state.State, p storage.Platform, picker *Picker, cb Callback) (widget.ModalRequest, *Form) {
	name := widget.NewTextBox(p.Name)
	exe := widget.NewTextBox(p.Path)
	args := widget.NewTextBox(p.Args)
	folder := widget.NewTextBox(p.Folder)
	name.Placeholder = "Platform name"
	exe.Placeholder = "Emulator executable"
	folder.Placeholder = "ROM folder"

	form := NewForm()
	form.AddField("Name", name)
	form.AddField("Executable", exe, widget.NewButton("Browse", func(*widget.Context) {
		picker.BrowseFile("Select emulator", exe)
	}))
	form.AddField("Arguments", args)
	form.AddField("ROM folder", folder, widget.NewButton("Browse", func(*widget.Context) {
		picker.BrowseDir("Select ROM folder", folder)
	}))

	title := "Add Platform"
	if p.ID != 0 {
		title = "Edit Platform"
	}
	req := widget.ModalRequest{
		Title:   title,
		Confirm: "Save",
		Content: form.Container,
		Size:    widget.ModalHalf,
		Focus:   form.First(),
		Handler: widget.ModalFuncs{
			ValidateFunc: func(*widget.Container) error {
				if strings.TrimSpace(name.Text()) == "" {
					return errors.New("Name is required")
				}
				if strings.TrimSpace(exe.Text()) == "" {
					return errors.New("Executable is required")
				}
				return nil
			},
			CloseFunc: func(ctx *widget.Context, accepted bool, _ *widget.Container) {
				if !accepted {
					return
				}
				job := jobs.SearchPlatform{
					Generation: st.NextGeneration(),
					ID:         p.ID,
					Name:       strings.TrimSpace(name.Text()),
					Path:       strings.TrimSpace(exe.Text()),
					Args:       args.Text(),
					Folder:     strings.TrimSpace(folder.Text()),
				}
				cb.Enqueue(job)
				ctx.Deferred.Toast("Searching for "+job.Name, style.ToastDuration)
			},
		},
	}
	return req, form
}
