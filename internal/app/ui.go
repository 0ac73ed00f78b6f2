package app

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/launchersearch/enhancer"
)

const logDebounceInterval = 150 * time.Millisecond

type uiState struct {
	service *Service
	live    liveQuery

	w           fyne.Window
	input       *widget.Entry
	results     *widget.List
	rows        []ResultRow
	log         *widget.Entry
	status      *widget.Label
	retryBtn    *widget.Button
	statusBind  binding.String
	logBind     binding.String
	logLines    []string
	logMu       sync.Mutex
	logUpdateCh chan struct{}
	logStop     chan struct{}
	logDone     chan struct{}
	retryQuery  string
}

func buildUI(a fyne.App, svc *Service) *uiState {
	u := &uiState{service: svc}
	u.w = a.NewWindow("Launcher Search")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("準備完了")
	u.logBind = binding.NewString()
	u.startLogUpdater()

	u.input = widget.NewEntry()
	u.input.SetPlaceHolder("アプリ名を入力 (かな・ローマ字・한글・초성)")
	u.input.OnChanged = u.onQueryChanged

	u.results = widget.NewList(
		func() int { return len(u.rows) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil, widget.NewLabel(""), widget.NewLabel(""))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			row := obj.(*fyne.Container)
			title := row.Objects[0].(*widget.Label)
			score := row.Objects[1].(*widget.Label)
			if id >= len(u.rows) {
				title.SetText("")
				score.SetText("")
				return
			}
			title.SetText(u.rows[id].String())
			score.SetText(strconv.Itoa(u.rows[id].Score))
		},
	)

	u.log = widget.NewEntryWithData(u.logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.SetPlaceHolder("ログ")
	u.log.Disable()

	u.status = widget.NewLabelWithData(u.statusBind)
	u.retryBtn = widget.NewButtonWithIcon("", theme.HistoryIcon(), func() {
		if u.retryQuery != "" {
			u.input.SetText(u.retryQuery)
		}
	})
	u.retryBtn.Hide()

	loadBtn := widget.NewButtonWithIcon("カタログ読込", theme.FolderOpenIcon(), func() { u.onLoadCatalog() })
	settingsBtn := widget.NewButtonWithIcon("設定", theme.SettingsIcon(), func() { u.openSettings() })
	clearBtn := widget.NewButtonWithIcon("クリア", theme.ContentClearIcon(), func() { u.input.SetText("") })

	top := container.NewVBox(
		container.NewBorder(nil, nil, nil, container.NewHBox(clearBtn, loadBtn, settingsBtn), u.input),
		container.NewBorder(nil, nil, nil, u.retryBtn, u.status),
	)
	bottom := container.NewVBox(
		widget.NewSeparator(),
		widget.NewLabelWithStyle("ログ", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWrap(fyne.NewSize(640, 120), u.log),
	)

	u.w.SetContent(container.NewBorder(top, bottom, nil, nil, u.results))
	u.w.Resize(fyne.NewSize(680, 620))
	u.w.SetOnClosed(u.stopLogUpdater)
	u.w.Canvas().Focus(u.input)
	u.startSession()
	return u
}

// onQueryChanged runs on the UI goroutine for every edit.
func (u *uiState) onQueryChanged(text string) {
	ctx := u.live.begin(text)
	if strings.TrimSpace(text) == "" {
		u.setRows(nil)
		u.startSession()
		return
	}
	go func() {
		start := time.Now()
		rows := u.service.Query(ctx, text)
		elapsed := time.Since(start)
		fyne.Do(func() {
			if strings.TrimSpace(u.live.current()) == "" {
				return
			}
			delivered := enhancer.Deliver(text, u.live.current, rows, func(rows []ResultRow) {
				u.setRows(rows)
				u.setStatus(fmt.Sprintf("%d件 (%dms)", len(rows), elapsed.Milliseconds()))
			})
			if !delivered {
				u.appendLog(fmt.Sprintf("古い結果を破棄: %q", text))
			}
		})
	}()
}

func (u *uiState) setRows(rows []ResultRow) {
	u.rows = rows
	u.results.Refresh()
}

// startSession begins a new search session and offers the last unresolved
// query from an earlier one.
func (u *uiState) startSession() {
	q, ok := u.service.NewSession()
	if !ok {
		u.retryQuery = ""
		u.retryBtn.Hide()
		u.setStatus(fmt.Sprintf("カタログ %d件", u.service.CatalogSize()))
		return
	}
	u.retryQuery = q
	u.retryBtn.SetText(q)
	u.retryBtn.Show()
	u.setStatus("見つからなかった検索:")
	u.appendLog(fmt.Sprintf("未解決の検索 %q", q))
}

func (u *uiState) appendLog(msg string) {
	now := time.Now().Format("15:04:05")
	line := fmt.Sprintf("[%s] %s", now, msg)

	u.logMu.Lock()
	u.logLines = append(u.logLines, line)
	if len(u.logLines) > 200 {
		u.logLines = u.logLines[len(u.logLines)-200:]
	}
	u.logMu.Unlock()

	if u.logUpdateCh == nil {
		u.flushLog()
		return
	}
	select {
	case u.logUpdateCh <- struct{}{}:
	default:
	}
}

func (u *uiState) startLogUpdater() {
	if u.logUpdateCh != nil {
		return
	}
	u.logUpdateCh = make(chan struct{}, 1)
	u.logStop = make(chan struct{})
	u.logDone = make(chan struct{})
	go func() {
		defer close(u.logDone)
		debounce(u.logUpdateCh, u.logStop, logDebounceInterval, u.flushLog)
	}()
}

// stopLogUpdater ends the debounce goroutine. Safe to call more than once.
func (u *uiState) stopLogUpdater() {
	if u.logStop == nil {
		return
	}
	select {
	case <-u.logStop:
	default:
		close(u.logStop)
	}
	<-u.logDone
}

// debounce calls flush once trigger has been quiet for interval, until stop
// is closed.
func debounce(trigger, stop <-chan struct{}, interval time.Duration, flush func()) {
	timer := time.NewTimer(interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	for {
		select {
		case <-stop:
			return
		case <-trigger:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(interval)
		case <-timer.C:
			flush()
		}
	}
}

func (u *uiState) flushLog() {
	u.logMu.Lock()
	text := strings.Join(u.logLines, "\n")
	u.logMu.Unlock()
	_ = u.logBind.Set(text)
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

// catalogChanged is called from the catalog watcher goroutine.
func (u *uiState) catalogChanged(n int) {
	fyne.Do(func() {
		u.appendLog(fmt.Sprintf("カタログを再読込しました (%d件)", n))
		if text := u.live.current(); strings.TrimSpace(text) != "" {
			u.onQueryChanged(text)
		}
	})
}

func (u *uiState) onLoadCatalog() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		n, err := u.service.LoadCatalog(path)
		if err != nil {
			dialog.ShowError(err, u.w)
			u.appendLog(fmt.Sprintf("エラー: %v", err))
			return
		}
		u.appendLog(fmt.Sprintf("カタログを %s から読み込みました (%d件)", path, n))
		u.onQueryChanged(u.input.Text)
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".tsv", ".json"}))
	fd.Show()
}

func (u *uiState) openSettings() {
	cfg := u.service.Config()

	maxSel := widget.NewSelect([]string{"3", "5", "8", "10"}, nil)
	maxSel.SetSelected(strconv.Itoa(cfg.MaxResults))

	semanticCheck := widget.NewCheck("意味検索で並べ替える", nil)
	semanticCheck.SetChecked(cfg.Semantic.Enabled)
	topNEntry := widget.NewEntry()
	topNEntry.SetText(strconv.Itoa(cfg.Semantic.TopN))

	sourceSel := widget.NewSelect([]string{enhancer.AssetsBundled, enhancer.AssetsRemote}, nil)
	sourceSel.SetSelected(cfg.Embedder.AssetSource)
	pendingSel := widget.NewSelect([]string{string(enhancer.PendingSession), string(enhancer.PendingFlag)}, nil)
	pendingSel.SetSelected(string(cfg.Pending.Mode))

	semanticCheck.OnChanged = func(b bool) {
		if b {
			topNEntry.Enable()
			sourceSel.Enable()
		} else {
			topNEntry.Disable()
			sourceSel.Disable()
		}
	}
	semanticCheck.OnChanged(cfg.Semantic.Enabled)

	form := &widget.Form{Items: []*widget.FormItem{
		{Text: "表示件数", Widget: maxSel},
		{Text: "意味検索", Widget: semanticCheck},
		{Text: "並べ替え対象", Widget: topNEntry},
		{Text: "モデル取得元", Widget: sourceSel},
		{Text: "未解決検索", Widget: pendingSel},
	}}

	dialog.NewCustomConfirm("設定", "OK", "キャンセル", form, func(ok bool) {
		if !ok {
			return
		}
		newCfg := cfg
		if v, err := strconv.Atoi(maxSel.Selected); err == nil {
			newCfg.MaxResults = v
		}
		newCfg.Semantic.Enabled = semanticCheck.Checked
		if v, err := strconv.Atoi(topNEntry.Text); err == nil && v > 0 {
			newCfg.Semantic.TopN = v
		}
		if sourceSel.Selected != "" {
			newCfg.Embedder.AssetSource = sourceSel.Selected
		}
		if pendingSel.Selected != "" {
			newCfg.Pending.Mode = enhancer.PendingMode(pendingSel.Selected)
		}
		if err := u.service.SaveConfig(newCfg); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.appendLog("設定を保存しました (次回起動時に反映)")
	}, u.w).Show()
}
