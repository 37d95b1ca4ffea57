package debugger

import "html/template"

type panelView struct {
	Items   []panelViewItem
	Visible bool
}

type panelViewItem struct {
	RenderedItem
	Style template.CSS
	Color template.CSS
}

func newPanelView(items []RenderedItem, visible bool) panelView {
	view := panelView{Items: make([]panelViewItem, len(items)), Visible: visible}
	for i, item := range items {
		// Styles come from the fixed level tables, never from entry content.
		view.Items[i] = panelViewItem{
			RenderedItem: item,
			Style:        template.CSS(item.Style),
			Color:        template.CSS(item.Color),
		}
	}
	return view
}

var panelTemplate = template.Must(template.New("panel").Parse(`<div id="maaw-debug-panel" style="position: fixed; top: 10px; right: 10px; width: 300px; max-height: 400px; background: #1a1a1a; color: #fff; border: 1px solid #333; border-radius: 8px; padding: 10px; font-family: monospace; font-size: 12px; z-index: 10000; overflow-y: auto; display: {{if .Visible}}block{{else}}none{{end}};">
  <div style="display: flex; justify-content: space-between; align-items: center; margin-bottom: 10px; padding-bottom: 5px; border-bottom: 1px solid #333;">
    <div style="font-weight: bold;">MAAW Debugger</div>
  </div>
  <div id="maaw-debug-logs">
  {{- range .Items}}
    <div style="margin-bottom: 5px; padding: 5px; border-radius: 3px; font-size: 11px; {{.Style}}">
      <div style="display: flex; justify-content: space-between;"><span>[{{.Time}}]</span><span style="color: {{.Color}}">{{.Level}}</span></div>
      <div>{{.Message}}</div>
      {{- if .Context}}
      <pre style="color: #888; font-size: 10px;">{{.Context}}</pre>
      {{- end}}
    </div>
  {{- end}}
  </div>
</div>
`))
