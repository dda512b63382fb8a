package zigbee

import "encoding/json"

// bridge/groups payload, one entry per configured group.
type groupInfo struct {
	ID           int    `json:"id"`
	FriendlyName string `json:"friendly_name"`
	Scenes       []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"scenes"`
}

func parseGroups(payload []byte) ([]Group, error) {
	var infos []groupInfo
	if err := json.Unmarshal(payload, &infos); err != nil {
		return nil, err
	}

	groups := make([]Group, 0, len(infos))
	for _, info := range infos {
		group := Group{ID: info.ID, FriendlyName: info.FriendlyName}
		for _, scene := range info.Scenes {
			group.Scenes = append(group.Scenes, Scene{ID: scene.ID, Name: scene.Name})
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// Per-group state payload. Zigbee2mqtt reports whatever it knows; missing
// fields stay nil so the merge keeps the previous values. Scenes are never
// reported back, only recalled.
type statePayload struct {
	Brightness *int    `json:"brightness"`
	State      *string `json:"state"`
}

func parseStateUpdate(payload []byte) (GroupUpdate, error) {
	var state statePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &state); err != nil {
			return GroupUpdate{}, err
		}
	}

	var update GroupUpdate
	if state.Brightness != nil {
		brightness := Brightness(*state.Brightness)
		update.Brightness = &brightness
	}
	if state.State != nil {
		onOff := OnOff(*state.State)
		update.State = &onOff
	}

	return update, nil
}
