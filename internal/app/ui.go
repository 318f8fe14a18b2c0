package app

import (
	"context"
	"fmt"
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
	"go.uber.org/zap"

	"yashubustudio/assist/assist"
	"yashubustudio/assist/internal/logging"
)

const (
	logDebounceInterval = 150 * time.Millisecond
	logLineLimit        = 200
)

// lookupTab is one selector plus its result table.
type lookupTab struct {
	view  assist.View
	sel   *widget.Select
	clear *widget.Button
	table *widget.Table
	hint  *widget.Label
	rows  []assist.Row
}

type uiState struct {
	service    *assist.Service
	logger     *zap.Logger
	watcher    *assist.Watcher
	ctx        context.Context
	configPath string

	w          fyne.Window
	tabs       *container.AppTabs
	views      *assist.ViewSelector
	lookups    []*lookupTab
	status     *widget.Label
	errorLabel *widget.Label
	openBtn    *widget.Button
	reloadBtn  *widget.Button
	exportBtn  *widget.Button
	settingBtn *widget.Button
	statusBind binding.String

	selMu     sync.Mutex
	selection assist.Selection

	logBuf      *logging.LineBuffer
	logBind     binding.String
	logUpdateCh chan struct{}
}

func newUIState(configPath string) *uiState {
	u := &uiState{ctx: context.Background(), configPath: configPath}
	u.logBuf = logging.NewLineBuffer(logLineLimit, u.requestLogFlush)
	return u
}

func (u *uiState) build(a fyne.App, svc *assist.Service, logger *zap.Logger) {
	u.service = svc
	u.logger = logger
	u.w = a.NewWindow("Articulation Lookup")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("Loading data...")
	u.logBind = binding.NewString()
	u.startLogUpdater()

	u.status = widget.NewLabelWithData(u.statusBind)
	u.errorLabel = widget.NewLabel("")
	u.errorLabel.Importance = widget.DangerImportance
	u.errorLabel.Wrapping = fyne.TextWrapWord
	u.errorLabel.Hide()

	u.openBtn = widget.NewButtonWithIcon("Open data file...", theme.FolderOpenIcon(), u.onOpenFile)
	u.reloadBtn = widget.NewButtonWithIcon("Reload", theme.ViewRefreshIcon(), func() { go u.load() })
	u.exportBtn = widget.NewButtonWithIcon("Export CSV", theme.DocumentSaveIcon(), u.onExport)
	u.settingBtn = widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), u.onSettings)

	items := make([]*container.TabItem, 0, len(assist.Views))
	for _, view := range assist.Views {
		tab := u.newLookupTab(view)
		u.lookups = append(u.lookups, tab)
		items = append(items, container.NewTabItem(view.Label(), tab.content()))
	}
	u.tabs = container.NewAppTabs(items...)
	u.views = assist.NewViewSelector(len(items), u.onViewChanged)
	u.tabs.OnSelected = func(item *container.TabItem) {
		for i, it := range u.tabs.Items {
			if it == item {
				if err := u.views.Select(i); err != nil {
					u.logger.Warn("select view", zap.Error(err))
				}
				return
			}
		}
	}

	logView := widget.NewEntryWithData(u.logBind)
	logView.MultiLine = true
	logView.Wrapping = fyne.TextWrapWord
	logView.Disable()
	logPane := container.NewVScroll(logView)
	logPane.SetMinSize(fyne.NewSize(200, 100))

	top := container.NewVBox(
		container.NewHBox(u.openBtn, u.reloadBtn, u.exportBtn, u.settingBtn, u.status),
		u.errorLabel,
	)
	split := container.NewVSplit(u.tabs, logPane)
	split.Offset = 0.8
	u.w.SetContent(container.NewBorder(top, nil, nil, nil, split))
	u.w.Resize(fyne.NewSize(900, 640))
}

func (u *uiState) newLookupTab(view assist.View) *lookupTab {
	tab := &lookupTab{view: view}
	tab.sel = widget.NewSelect(nil, func(value string) { u.onSelect(view, value) })
	tab.sel.PlaceHolder = placeholderFor(view)
	tab.clear = widget.NewButtonWithIcon("", theme.ContentClearIcon(), tab.sel.ClearSelected)
	tab.clear.Disable()
	tab.hint = widget.NewLabel(hintFor(view))
	cols := assist.Columns(view)
	tab.table = widget.NewTable(
		func() (int, int) { return len(tab.rows) + 1, len(cols) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			lbl.SetText(cellText(tab.rows, cols, id.Row, id.Col))
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
			} else {
				lbl.TextStyle = fyne.TextStyle{}
			}
		},
	)
	tab.table.SetColumnWidth(0, 320)
	tab.table.SetColumnWidth(1, 260)
	tab.table.Hide()
	return tab
}

func (t *lookupTab) content() fyne.CanvasObject {
	picker := container.NewBorder(nil, nil, nil, t.clear, t.sel)
	return container.NewBorder(picker, nil, nil, nil, container.NewStack(t.table, t.hint))
}

// show swaps between the table and the hint. Must run on the main thread.
func (t *lookupTab) show(options []string, rows []assist.Row) {
	t.sel.Options = options
	t.sel.Refresh()
	t.rows = rows
	if t.sel.Selected == "" {
		t.clear.Disable()
	} else {
		t.clear.Enable()
	}
	if len(rows) == 0 {
		t.table.Hide()
		t.hint.Show()
	} else {
		t.hint.Hide()
		t.table.Show()
	}
	t.table.Refresh()
}

func (u *uiState) onSelect(view assist.View, value string) {
	u.selMu.Lock()
	u.selection = u.selection.With(view, value)
	u.selMu.Unlock()
	u.logger.Debug("selection changed", zap.String("view", view.Label()), zap.String("value", value))
	u.refresh()
}

func (u *uiState) onViewChanged(i int) {
	if i < 0 || i >= len(u.lookups) {
		return
	}
	u.logger.Debug("view changed", zap.String("view", u.lookups[i].view.Label()))
}

func (u *uiState) currentSelection() assist.Selection {
	u.selMu.Lock()
	defer u.selMu.Unlock()
	return u.selection
}

// refresh recomputes every view from the service. Must run on the main thread.
func (u *uiState) refresh() {
	snap := u.service.Snapshot(u.currentSelection())
	for _, tab := range u.lookups {
		tab.show(snap.Options(tab.view), snap.Rows(tab.view))
	}
	if snap.Err != nil {
		u.errorLabel.SetText(errorBanner(snap.Err))
		u.errorLabel.Show()
	} else {
		u.errorLabel.Hide()
	}
	_ = u.statusBind.Set(statusText(snap))
}

func (u *uiState) load() {
	fyne.Do(func() {
		u.reloadBtn.Disable()
		_ = u.statusBind.Set("Loading data...")
	})
	err := u.service.Load(context.Background())
	fyne.Do(func() {
		u.reloadBtn.Enable()
		u.refresh()
		if err != nil {
			dialog.ShowError(err, u.w)
		}
	})
}

func (u *uiState) startWatcher() {
	cfg := u.service.Config()
	if !cfg.Watch {
		return
	}
	path, ok := assist.LocalPath(cfg.DataSource)
	if !ok {
		u.logger.Info("watch disabled for remote data source", zap.String("source", cfg.DataSource))
		return
	}
	w, err := assist.NewWatcher(path, u.service, u.logger)
	if err != nil {
		u.logger.Warn("create watcher", zap.Error(err))
		return
	}
	w.OnReload = func(error) { fyne.Do(u.refresh) }
	if err := w.Start(u.ctx); err != nil {
		u.logger.Warn("start watcher", zap.Error(err))
		w.Stop()
		return
	}
	u.watcher = w
}

func (u *uiState) stopWatcher() {
	if u.watcher != nil {
		u.watcher.Stop()
		u.watcher = nil
	}
}

func (u *uiState) onOpenFile() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		cfg := u.service.Config()
		cfg.DataSource = path
		u.applyConfig(cfg)
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".tsv"}))
	fd.Show()
}

func (u *uiState) onSettings() {
	form := newSettingsForm(u.service.Config())
	d := dialog.NewForm("Settings", "Save", "Cancel", form.items(), func(ok bool) {
		if ok {
			u.applyConfig(form.apply(u.service.Config()))
		}
	}, u.w)
	d.Resize(fyne.NewSize(520, 0))
	d.Show()
}

// applyConfig installs cfg, persists it and reloads the data. Must run on the main thread.
func (u *uiState) applyConfig(cfg assist.Config) {
	prev := u.service.Config()
	applied := u.service.UpdateConfig(cfg)
	applied.ApplyColumnCandidates()
	if err := assist.SaveConfig(u.configPath, applied); err != nil {
		u.logger.Warn("save config", zap.Error(err))
		dialog.ShowError(err, u.w)
	}
	if watchChanged(prev, applied) {
		u.stopWatcher()
		u.startWatcher()
	}
	u.logger.Info("configuration updated",
		zap.String("source", applied.DataSource),
		zap.String("locale", applied.Locale))
	go u.load()
}

func (u *uiState) onExport() {
	active := u.views.Active()
	if active < 0 || active >= len(u.lookups) {
		return
	}
	tab := u.lookups[active]
	rows := tab.rows
	if len(rows) == 0 {
		dialog.ShowInformation("Export", "Nothing to export: make a selection first", u.w)
		return
	}
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if uc == nil {
			return
		}
		defer uc.Close()
		if err := assist.WriteRowsCSV(uc, tab.view, rows); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.logger.Info("exported rows", zap.String("view", tab.view.Label()), zap.Int("rows", len(rows)), zap.String("uri", uc.URI().String()))
	}, u.w)
	fd.SetFileName(exportFileName(tab.view, u.currentSelection().Value(tab.view)))
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	fd.Show()
}

func (u *uiState) requestLogFlush() {
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
	go u.logUpdateLoop()
}

func (u *uiState) logUpdateLoop() {
	timer := time.NewTimer(logDebounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-u.logUpdateCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(logDebounceInterval)
		case <-timer.C:
			u.flushLog()
		}
	}
}

func (u *uiState) flushLog() {
	if u.logBind == nil {
		return
	}
	_ = u.logBind.Set(u.logBuf.String())
}

func watchChanged(prev, next assist.Config) bool {
	return prev.DataSource != next.DataSource || prev.Watch != next.Watch
}

func placeholderFor(view assist.View) string {
	if view == assist.ViewByTarget {
		return "-- Select a Community College --"
	}
	return "-- Select a University Course --"
}

func hintFor(view assist.View) string {
	if view == assist.ViewByTarget {
		return "Choose a community college to list the courses it articulates."
	}
	return "Choose a university course to list its community college equivalents."
}

// cellText renders table cell (row, col); row 0 is the header.
func cellText(rows []assist.Row, cols [2]string, row, col int) string {
	if col < 0 || col >= len(cols) {
		return ""
	}
	if row == 0 {
		return cols[col]
	}
	idx := row - 1
	if idx < 0 || idx >= len(rows) {
		return ""
	}
	if col == 0 {
		return rows[idx].Label
	}
	return rows[idx].Course
}

func statusText(snap assist.Snapshot) string {
	if snap.Version == 0 {
		if snap.Err != nil {
			return "No data loaded"
		}
		return "Loading data..."
	}
	return fmt.Sprintf("%d records / %d courses / %d colleges",
		snap.Records, len(snap.SourceCourses), len(snap.TargetInstitutions))
}

func errorBanner(err error) string {
	return "Could not load articulation data: " + err.Error()
}

func exportFileName(view assist.View, value string) string {
	base := "by_course"
	if view == assist.ViewByTarget {
		base = "by_college"
	}
	value = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(value))
	if value == "" {
		return base + ".csv"
	}
	return base + "_" + value + ".csv"
}
