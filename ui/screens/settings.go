package screens

import (
	"fmt"
	"log"
	"strconv"

	"github.com/user-none/yaffe/ui/storage"
	"github.com/user-none/yaffe/ui/widget"
)

var settingLabels = map[string]string{
	storage.KeyCacheSizeMB:      "Cache size (MB)",
	storage.KeyWorkerCount:      "Workers",
	storage.KeyInfoPaneWidth:    "Info pane width",
	storage.KeyTileColumns:      "Tile columns",
	storage.KeyRecentPageCount:  "Recent games",
	storage.KeyAccentColor:      "Accent color",
	storage.KeyFontSize:         "Font size",
	storage.KeyRunAtStartup:     "Run at startup",
	storage.KeyTheGamesDBAPIKey: "TheGamesDB API key",
	storage.KeyUpdateURL:        "Update URL",
}

func settingLabel(key string) string {
	if l, ok := settingLabels[key]; ok {
		return l
	}
	return key
}

// settingField is the editor of one registered setting.
type settingField struct {
	key   string
	kind  storage.Kind
	box   *widget.TextBox
	check *widget.Checkbox
}

func (f settingField) raw() string {
	if f.check != nil {
		return strconv.FormatBool(f.check.Checked)
	}
	return f.box.Text()
}

// SettingsModal builds the settings editor. Every registered setting except
// the passcode gets a row; booleans are checkboxes. Accepting stores the
// values and hands them to cb.
func SettingsModal(settings *storage.Settings, cb Callback) (widget.ModalRequest, *Form) {
	form := NewForm()
	var fields []settingField
	for _, key := range settings.Keys() {
		if key == storage.KeyRestrictedPasscode {
			continue
		}
		v, _ := settings.Get(key)
		f := settingField{key: key, kind: v.Kind}
		if v.Kind == storage.KindBool {
			f.check = widget.NewCheckbox("", v.Bool)
			form.AddField(settingLabel(key), f.check)
		} else {
			f.box = widget.NewTextBox(v.Encode())
			form.AddField(settingLabel(key), f.box)
		}
		fields = append(fields, f)
	}

	req := widget.ModalRequest{
		Title:   "Settings",
		Confirm: "Save",
		Content: form.Container,
		Size:    widget.ModalHalf,
		Focus:   form.First(),
		Handler: widget.ModalFuncs{
			ValidateFunc: func(*widget.Container) error {
				for _, f := range fields {
					if _, err := storage.ParseValue(f.kind, f.raw()); err != nil {
						return fmt.Errorf("%s: %w", settingLabel(f.key), err)
					}
				}
				return nil
			},
			CloseFunc: func(ctx *widget.Context, accepted bool, _ *widget.Container) {
				if !accepted {
					return
				}
				for _, f := range fields {
					if err := settings.SetRaw(f.key, f.raw()); err != nil {
						log.Printf("Failed to set %s: %v", f.key, err)
					}
				}
				if err := cb.SettingsChanged(); err != nil {
					showError(ctx, err)
				}
			},
		},
	}
	return req, form
}
