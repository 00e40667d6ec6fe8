package events

import "github.com/atomicstack/listy-city/internal/logging"

type CityTracer struct{}

type cityReason string

const (
	CityReasonEscape cityReason = "escape"
	CityReasonEmpty  cityReason = "empty"
)

var City = CityTracer{}

func (CityTracer) AddPrompt(existing int) {
	logging.Trace("city.add.prompt", map[string]interface{}{"existing": existing})
}

func (CityTracer) EditPrompt(name string) {
	logging.Trace("city.edit.prompt", map[string]interface{}{"name": name})
}

func (CityTracer) Choose(name, province string) {
	logging.Trace("city.choose", map[string]interface{}{"name": name, "province": province})
}

func (CityTracer) ConfirmDelete(name string) {
	logging.Trace("city.delete.confirm", map[string]interface{}{"name": name})
}

func (CityTracer) Add(name, province string) {
	logging.Trace("city.add", map[string]interface{}{"name": name, "province": province})
}

func (CityTracer) Update(name, province string) {
	logging.Trace("city.update", map[string]interface{}{"name": name, "province": province})
}

func (CityTracer) Rename(from, to string) {
	logging.Trace("city.rename", map[string]interface{}{"from": from, "to": to})
}

func (CityTracer) Delete(name string) {
	logging.Trace("city.delete", map[string]interface{}{"name": name})
}

func (CityTracer) Rejected(reason cityReason) {
	logging.Trace("city.rejected", map[string]interface{}{"reason": string(reason)})
}

func (CityTracer) Cancel(reason cityReason) {
	logging.Trace("city.cancel", map[string]interface{}{"reason": string(reason)})
}
