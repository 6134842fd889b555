package application

import (
	"fmt"

	"azuredevops-mcp-server/internal/domain"
)

// getStringParam extracts a string parameter from the arguments map.
// Returns an error if the parameter is required but missing or not a string.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return "", domain.NewValidationError(fmt.Sprintf("missing required parameter: %s", name), nil)
		}
		return "", nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", domain.NewValidationError(fmt.Sprintf("parameter %s must be a string", name), nil)
	}
	return strValue, nil
}

// getIntParam extracts an integer parameter from the arguments map.
// JSON numbers arrive as float64; both float64 and int are accepted.
func getIntParam(args map[string]interface{}, name string, required bool) (int, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return 0, domain.NewValidationError(fmt.Sprintf("missing required parameter: %s", name), nil)
		}
		return 0, nil
	}

	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, domain.NewValidationError(fmt.Sprintf("parameter %s must be an integer", name), nil)
	}
}

// getBoolParam extracts an optional boolean parameter from the arguments map.
// The second return value reports whether the parameter was present.
func getBoolParam(args map[string]interface{}, name string) (bool, bool, error) {
	value, exists := args[name]
	if !exists {
		return false, false, nil
	}

	boolValue, ok := value.(bool)
	if !ok {
		return false, false, domain.NewValidationError(fmt.Sprintf("parameter %s must be a boolean", name), nil)
	}
	return boolValue, true, nil
}

// getStringSliceParam extracts an optional array-of-strings parameter.
// JSON arrays arrive as []interface{}; each element must be a string.
func getStringSliceParam(args map[string]interface{}, name string) ([]string, error) {
	value, exists := args[name]
	if !exists {
		return nil, nil
	}

	raw, ok := value.([]interface{})
	if !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("parameter %s must be an array of strings", name), nil)
	}

	values := make([]string, 0, len(raw))
	for _, element := range raw {
		str, ok := element.(string)
		if !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("parameter %s must contain only strings", name), nil)
		}
		values = append(values, str)
	}
	return values, nil
}
