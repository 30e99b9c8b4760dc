package synth

import (
	"encoding/json"
	"io/ioutil"
)

type presetMetaJSON struct {
	Name string `json:"name"`
}
type presetMetaListJSON struct {
	Items []presetMetaJSON `json:"items"`
}
type presetMeta struct {
	name string
}
type presetData struct {
	list []*presetMeta
}
type presetManager struct {
	dir  string
	data *presetData
}

func newPresetManager(dir string) *presetManager {
	return &presetManager{
		dir: dir,
	}
}

func (pm *presetManager) getList() ([]*presetMeta, error) {
	if pm.data == nil {
		err := pm.loadData()
		if err != nil {
			return nil, err
		}
	}
	return pm.data.list, nil
}

// load reads a preset as a full engine snapshot; the caller applies
// it through the reset-everything path.
func (pm *presetManager) load(name string) ([]byte, error) {
	path := pm.dir + "/" + name + ".json"
	return ioutil.ReadFile(path)
}

func (pm *presetManager) loadData() error {
	path := pm.dir + "/_list.json"
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	metaListJSON := &presetMetaListJSON{}
	err = json.Unmarshal(bytes, &metaListJSON)
	if err != nil {
		return err
	}
	if pm.data == nil {
		pm.data = &presetData{list: make([]*presetMeta, 0, 128)}
	}
	pm.data.list = pm.data.list[0:0]
	for _, item := range metaListJSON.Items {
		pm.data.list = append(pm.data.list, &presetMeta{name: item.Name})
	}
	return nil
}

// PresetList returns the available preset names.
func (e *Engine) PresetList() ([]string, error) {
	list, err := e.presets.getList()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(list))
	for i, meta := range list {
		names[i] = meta.name
	}
	return names, nil
}
