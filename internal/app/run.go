package app

import (
	"context"
	"io"
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"yashubustudio/launchersearch/catalog"
	"yashubustudio/launchersearch/lexical"
)

const fyneAppID = "jp.yashubustudio.launchersearch"

// Run opens the engine, starts watching the catalog file when one is given and
// shows the search window until it is closed.
func Run(opts Options) error {
	capture := newLogCapture(200)
	out, prefix, flags := io.Writer(os.Stderr), "", log.LstdFlags
	if opts.Logger != nil {
		out, prefix, flags = opts.Logger.Writer(), opts.Logger.Prefix(), opts.Logger.Flags()
	}
	opts.Logger = log.New(io.MultiWriter(out, capture), prefix, flags)

	svc, err := NewService(opts)
	if err != nil {
		return err
	}
	defer svc.Close()

	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, svc)
	capture.attach(u.appendLog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if path := svc.CatalogPath(); path != "" {
		go func() {
			err := catalog.Watch(ctx, path, func(apps []lexical.App) {
				svc.SetCatalog(apps)
				u.catalogChanged(len(apps))
			}, func(err error) {
				u.appendLog("カタログ再読込エラー: " + err.Error())
			})
			if err != nil && ctx.Err() == nil {
				u.appendLog("カタログ監視を開始できません: " + err.Error())
			}
		}()
	}

	u.w.ShowAndRun()
	u.live.stop()
	u.stopLogUpdater()
	return nil
}
