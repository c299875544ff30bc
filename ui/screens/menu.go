package screens

import (
	"fmt"

	"github.com/user-none/yaffe/jobs"
	"github.com/user-none/yaffe/launch"
	"github.com/user-none/yaffe/ui/modal"
	"github.com/user-none/yaffe/ui/state"
	"github.com/user-none/yaffe/ui/storage"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
)

// menuItem is one entry of the main menu.
type menuItem struct {
	label string
	run   func(ctx *widget.Context)
}

func (i menuItem) DisplayString() string { return i.label }

// menuItems lists the entries that apply to the current selection.
func (m *Main) menuItems() []menuItem {
	items := []menuItem{{"Add Platform", func(ctx *widget.Context) {
		m.editPlatform(ctx, storage.Platform{Args: launch.RomToken})
	}}}

	if g := m.st.SelectedGroup(); g != nil && g.Kind == state.GroupEmulator {
		id, name := g.PlatformID, g.Name
		items = append(items,
			menuItem{"Edit Platform", func(ctx *widget.Context) {
				p, err := m.catalog.Platform(id)
				if err != nil {
					showError(ctx, fmt.Errorf("failed to load %s: %w", name, err))
					return
				}
				m.editPlatform(ctx, p)
			}},
			menuItem{"Delete Platform", func(ctx *widget.Context) {
				requireUnlocked(ctx, m.st, func(ctx *widget.Context) {
					m.confirmDelete(ctx, id, name)
				})
			}},
		)
	}

	items = append(items, menuItem{"Settings", func(ctx *widget.Context) {
		requireUnlocked(ctx, m.st, func(ctx *widget.Context) {
			req, _ := SettingsModal(m.st.Settings, m.cb)
			ctx.Deferred.Modal(req)
		})
	}})
	if m.st.RestrictedEnabled() {
		items = append(items, menuItem{"Remove Passcode", func(ctx *widget.Context) {
			requireUnlocked(ctx, m.st, m.removePasscode)
		}})
	} else {
		items = append(items, menuItem{"Set Passcode", m.setPasscode})
	}

	return append(items,
		menuItem{"Check for Updates", m.checkUpdates},
		menuItem{"Exit", func(*widget.Context) { m.cb.Exit() }},
	)
}

func (m *Main) showMenu(ctx *widget.Context) {
	req, list := modal.List("Menu", m.menuItems(), func(ctx *widget.Context, it menuItem) {
		it.run(ctx)
	})
	list.Selected = 0
	ctx.Deferred.Modal(req)
}

func (m *Main) editPlatform(ctx *widget.Context, p storage.Platform) {
	req, _ := PlatformModal(m.st, p, m.picker, m.cb)
	ctx.Deferred.Modal(req)
}

func (m *Main) confirmDelete(ctx *widget.Context, id int64, name string) {
	req := modal.Message("Delete Platform", fmt.Sprintf("Delete %s and all of its games?", name))
	req.Confirm = "Delete"
	req.Handler = widget.ModalFuncs{
		CloseFunc: func(ctx *widget.Context, accepted bool, _ *widget.Container) {
			if !accepted {
				return
			}
			if err := m.catalog.DeletePlatform(id); err != nil {
				showError(ctx, fmt.Errorf("failed to delete %s: %w", name, err))
				return
			}
			m.st.MarkDirty()
			ctx.Deferred.Revert()
			ctx.Deferred.Toast("Deleted "+name, style.ToastDuration)
		},
	}
	ctx.Deferred.Modal(req)
}

func (m *Main) setPasscode(ctx *widget.Context) {
	box := widget.NewPasswordBox(state.MaxPasscodeLen)
	box.Placeholder = "New passcode"
	form := NewForm()
	form.AddField("Passcode", box)
	ctx.Deferred.Modal(widget.ModalRequest{
		Title:   "Set Passcode",
		Confirm: "Set",
		Content: form.Container,
		Size:    widget.ModalThird,
		Focus:   box.ID(),
		Handler: widget.ModalFuncs{
			ValidateFunc: func(*widget.Container) error {
				return state.ValidatePasscode(box.Text())
			},
			CloseFunc: func(ctx *widget.Context, accepted bool, _ *widget.Container) {
				if !accepted {
					return
				}
				if err := m.st.EnableRestricted(box.Text()); err != nil {
					showError(ctx, err)
					return
				}
				if err := m.cb.SettingsChanged(); err != nil {
					showError(ctx, err)
					return
				}
				ctx.Deferred.Toast("Restricted mode on", style.ToastDuration)
			},
		},
	})
}

func (m *Main) removePasscode(ctx *widget.Context) {
	if err := m.st.DisableRestricted(); err != nil {
		showError(ctx, err)
		return
	}
	if err := m.cb.SettingsChanged(); err != nil {
		showError(ctx, err)
		return
	}
	ctx.Deferred.Toast("Restricted mode off", style.ToastDuration)
}

func (m *Main) checkUpdates(ctx *widget.Context) {
	if m.st.Settings.String(storage.KeyUpdateURL) == "" {
		ctx.Deferred.Toast("No update URL is set", style.ToastDuration)
		return
	}
	m.cb.Enqueue(jobs.CheckUpdates{})
	ctx.Deferred.Toast("Checking for updates", style.ToastDuration)
}
