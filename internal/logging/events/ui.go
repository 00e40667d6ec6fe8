package events

import "github.com/atomicstack/listy-city/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) MenuEnter(levelID, itemID, label, filter string) {
	logging.Trace("menu.enter", map[string]interface{}{
		"level":  levelID,
		"item":   itemID,
		"label":  label,
		"filter": filter,
	})
}

func (UITracer) MenuCursor(levelID string, cursor int) {
	logging.Trace("menu.cursor", map[string]interface{}{"level": levelID, "cursor": cursor})
}

func (UITracer) Tap(levelID string, row, cursor int) {
	logging.Trace("menu.tap", map[string]interface{}{"level": levelID, "row": row, "cursor": cursor})
}

func (UITracer) Scroll(levelID string, offset int) {
	logging.Trace("menu.scroll", map[string]interface{}{"level": levelID, "offset": offset})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

// Edit records a filter change made by key.
func (FilterTracer) Edit(levelID, key, filter string, pos int) {
	logging.Trace("filter.edit", map[string]interface{}{
		"level":  levelID,
		"key":    key,
		"filter": filter,
		"cursor": pos,
	})
}

func (CommandTracer) Queue(seq uint64, node, label string) {
	logging.Trace("command.queue", map[string]interface{}{"seq": seq, "node": node, "label": label})
}

func (CommandTracer) Missing(node string) {
	logging.Trace("command.missing", map[string]interface{}{"node": node})
}

func (CommandTracer) Result(seq uint64, node, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"seq": seq, "node": node, "msg": msgType})
}
