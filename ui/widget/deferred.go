package widget

import (
	"log"
	"time"
)

// MaxDrainRounds bounds how many times Drain re-runs for intents that queue
// further intents.
const MaxDrainRounds = 16

// ModalSize is a modal's width class.
type ModalSize uint8

const (
	ModalThird ModalSize = iota
	ModalHalf
	ModalFull
)

// Fraction returns the share of the window width the size class occupies.
func (s ModalSize) Fraction() float32 {
	switch s {
	case ModalThird:
		return 1.0 / 3
	case ModalHalf:
		return 0.5
	default:
		return 1
	}
}

// ModalHandler validates and closes a modal. Handlers reach their typed
// content through whatever they captured when the modal was built.
type ModalHandler interface {
	// Validate runs before an accepting close. A non-nil error keeps the
	// modal open and its text is shown to the user.
	Validate(content *Container) error

	// OnClose runs after the modal is removed from the stack.
	OnClose(ctx *Context, accepted bool, content *Container)
}

// ModalFuncs adapts a pair of functions to ModalHandler. Either may be nil.
type ModalFuncs struct {
	ValidateFunc func(content *Container) error
	CloseFunc    func(ctx *Context, accepted bool, content *Container)
}

func (m ModalFuncs) Validate(content *Container) error {
	if m.ValidateFunc == nil {
		return nil
	}
	return m.ValidateFunc(content)
}

func (m ModalFuncs) OnClose(ctx *Context, accepted bool, content *Container) {
	if m.CloseFunc != nil {
		m.CloseFunc(ctx, accepted, content)
	}
}

// PluginLoad selects how a plugin listing is loaded.
type PluginLoad uint8

const (
	// PluginInitialize loads the first page for the current filter.
	PluginInitialize PluginLoad = iota
	// PluginRefresh reloads the current listing from its first page.
	PluginRefresh
	// PluginFetch appends the next page.
	PluginFetch
	// PluginBack pops the navigation stack and reloads the prior listing.
	PluginBack
)

func (p PluginLoad) String() string {
	switch p {
	case PluginInitialize:
		return "Initialize"
	case PluginRefresh:
		return "Refresh"
	case PluginFetch:
		return "Fetch"
	case PluginBack:
		return "Back"
	default:
		return "Unknown"
	}
}

// Target applies intents. The application implements it.
type Target interface {
	FocusWidget(ctx *Context, id ID)
	RevertFocus(ctx *Context)
	LoadPlugin(ctx *Context, mode PluginLoad)
	DisplayMessage(ctx *Context, title, text string)
	DisplayModal(ctx *Context, m ModalRequest)
	CloseModal(ctx *Context, accepted bool)
	Toast(ctx *Context, text string, d time.Duration)
	Reload(ctx *Context)
}

// Intent is a deferred effect. Resolve may queue further intents on
// ctx.Deferred; they run in the next drain round.
type Intent interface {
	Resolve(t Target, ctx *Context)
}

// FocusWidget pushes a widget onto the focus stack.
type FocusWidget struct{ ID ID }

// RevertFocus pops the focus stack.
type RevertFocus struct{}

// LoadPlugin loads a listing from the active plugin.
type LoadPlugin struct{ Mode PluginLoad }

// DisplayMessage opens a message modal.
type DisplayMessage struct{ Title, Text string }

// ModalRequest describes a modal to push.
type ModalRequest struct {
	Title   string
	Confirm string // empty for no confirm toolbar
	Content *Container
	Size    ModalSize
	Handler ModalHandler
	// Focus is the widget inside Content focused when the modal opens.
	Focus ID
}

// DisplayModal pushes a modal.
type DisplayModal struct{ ModalRequest }

// CloseModal closes the top modal.
type CloseModal struct{ Accepted bool }

// Toast shows a transient message.
type Toast struct {
	Text     string
	Duration time.Duration
}

// Reload refreshes the selected tile group.
type Reload struct{}

func (i FocusWidget) Resolve(t Target, ctx *Context)    { t.FocusWidget(ctx, i.ID) }
func (RevertFocus) Resolve(t Target, ctx *Context)      { t.RevertFocus(ctx) }
func (i LoadPlugin) Resolve(t Target, ctx *Context)     { t.LoadPlugin(ctx, i.Mode) }
func (i DisplayMessage) Resolve(t Target, ctx *Context) { t.DisplayMessage(ctx, i.Title, i.Text) }
func (i DisplayModal) Resolve(t Target, ctx *Context)   { t.DisplayModal(ctx, i.ModalRequest) }
func (i CloseModal) Resolve(t Target, ctx *Context)     { t.CloseModal(ctx, i.Accepted) }
func (i Toast) Resolve(t Target, ctx *Context)          { t.Toast(ctx, i.Text, i.Duration) }
func (Reload) Resolve(t Target, ctx *Context)           { t.Reload(ctx) }

// Deferred collects intents during input dispatch and render.
type Deferred struct {
	queue []Intent
}

// NewDeferred creates an empty queue.
func NewDeferred() *Deferred {
	return &Deferred{}
}

// Push queues an intent.
func (d *Deferred) Push(i Intent) {
	d.queue = append(d.queue, i)
}

// Len returns the number of queued intents.
func (d *Deferred) Len() int {
	return len(d.queue)
}

// Pending returns the queued intents without draining them.
func (d *Deferred) Pending() []Intent {
	return d.queue
}

// Focus queues a FocusWidget intent.
func (d *Deferred) Focus(id ID) { d.Push(FocusWidget{ID: id}) }

// Revert queues a RevertFocus intent.
func (d *Deferred) Revert() { d.Push(RevertFocus{}) }

func (d *Deferred) LoadPlugin(m PluginLoad) { d.Push(LoadPlugin{Mode: m}) }

func (d *Deferred) Message(title, text string) {
	d.Push(DisplayMessage{Title: title, Text: text})
}

func (d *Deferred) Modal(m ModalRequest) { d.Push(DisplayModal{ModalRequest: m}) }

// Close queues a CloseModal intent for the top modal.
func (d *Deferred) Close(accepted bool) { d.Push(CloseModal{Accepted: accepted}) }

func (d *Deferred) Reload() { d.Push(Reload{}) }

func (d *Deferred) Toast(text string, dur time.Duration) {
	d.Push(Toast{Text: text, Duration: dur})
}

// Drain resolves queued intents against t until no new intents are
// queued or MaxDrainRounds is reached. Intents left over after the last
// round are dropped. It returns the number of rounds run.
func (d *Deferred) Drain(t Target, ctx *Context) int {
	saved := ctx.Deferred
	defer func() { ctx.Deferred = saved }()

	rounds := 0
	for len(d.queue) > 0 {
		if rounds == MaxDrainRounds {
			log.Printf("Failed to drain deferred actions: %d intents still queued after %d rounds", len(d.queue), rounds)
			d.queue = nil
			break
		}
		batch := d.queue
		d.queue = nil
		ctx.Deferred = d
		for _, i := range batch {
			i.Resolve(t, ctx)
		}
		rounds++
	}
	return rounds
}
