package utility

import (
	"encoding/json"
)

// ConvertStruct chuyển đổi một struct sang struct khác thông qua JSON marshal/unmarshal.
// target phải là con trỏ đến struct đích.
func ConvertStruct(source interface{}, target interface{}) (interface{}, error) {
	// Chuyển source thành JSON
	jsonData, err := json.Marshal(source)
	if err != nil {
		return nil, err
	}

	// Chuyển JSON thành target struct
	err = json.Unmarshal(jsonData, target)
	if err != nil {
		return nil, err
	}

	return target, nil
}
