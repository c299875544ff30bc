package screens

import (
	"fmt"

	"github.com/user-none/yaffe/jobs"
	"github.com/user-none/yaffe/ui/modal"
	"github.com/user-none/yaffe/ui/style"
	"github.com/user-none/yaffe/ui/widget"
	"github.com/user-none/yaffe/updater"
)

// UpdateFound reports the result of an update check. When a newer release
// exists the user is asked to download it into dest.
func UpdateFound(ctx *widget.Context, a updater.Available, dest string, cb Callback) {
	if a.URL == "" {
		ctx.Deferred.Toast("Up to date ("+a.Current+")", style.ToastDuration)
		return
	}
	req := modal.Message("Update Available",
		fmt.Sprintf("Version %s is available. You are running %s. Download and restart?", a.Latest, a.Current))
	req.Confirm = "Download"
	req.Handler = widget.ModalFuncs{
		CloseFunc: func(ctx *widget.Context, accepted bool, _ *widget.Container) {
			if !accepted {
				return
			}
			cb.Enqueue(jobs.DownloadURL{URL: a.URL, Dest: dest})
			ctx.Deferred.Toast("Downloading "+a.Latest, style.ToastDuration)
		},
	}
	ctx.Deferred.Modal(req)
}
