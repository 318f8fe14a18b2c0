package app

import (
	"strings"

	"fyne.io/fyne/v2/widget"

	"yashubustudio/assist/assist"
)

const columnHint = "auto-detect, a header name or #N"

// settingsForm edits the parts of the configuration a user can change at runtime.
type settingsForm struct {
	source      *widget.Entry
	locale      *widget.Entry
	sourceCol   *widget.Entry
	institution *widget.Entry
	courseCol   *widget.Entry
	watch       *widget.Check
}

func newSettingsForm(cfg assist.Config) *settingsForm {
	f := &settingsForm{
		source:      widget.NewEntry(),
		locale:      widget.NewEntry(),
		sourceCol:   widget.NewEntry(),
		institution: widget.NewEntry(),
		courseCol:   widget.NewEntry(),
		watch:       widget.NewCheck("Reload when the file changes", nil),
	}
	f.source.SetText(cfg.DataSource)
	f.source.SetPlaceHolder(assist.DefaultDataSource)
	f.locale.SetText(cfg.Locale)
	f.locale.SetPlaceHolder("en")
	f.sourceCol.SetText(cfg.Columns.SourceCourse)
	f.institution.SetText(cfg.Columns.TargetInstitution)
	f.courseCol.SetText(cfg.Columns.TargetCourse)
	for _, e := range []*widget.Entry{f.sourceCol, f.institution, f.courseCol} {
		e.SetPlaceHolder(columnHint)
	}
	f.watch.SetChecked(cfg.Watch)
	return f
}

func (f *settingsForm) items() []*widget.FormItem {
	return []*widget.FormItem{
		widget.NewFormItem("Data source", f.source),
		widget.NewFormItem("Sort locale", f.locale),
		widget.NewFormItem("University course column", f.sourceCol),
		widget.NewFormItem("College column", f.institution),
		widget.NewFormItem("Equivalent course column", f.courseCol),
		widget.NewFormItem("Watch", f.watch),
	}
}

// apply copies the edited values onto cfg. Fields the form does not show are kept.
func (f *settingsForm) apply(cfg assist.Config) assist.Config {
	cfg.DataSource = strings.TrimSpace(f.source.Text)
	cfg.Locale = strings.TrimSpace(f.locale.Text)
	cfg.Columns = assist.ColumnConfig{
		SourceCourse:      strings.TrimSpace(f.sourceCol.Text),
		TargetInstitution: strings.TrimSpace(f.institution.Text),
		TargetCourse:      strings.TrimSpace(f.courseCol.Text),
	}
	cfg.Watch = f.watch.Checked
	return cfg
}
