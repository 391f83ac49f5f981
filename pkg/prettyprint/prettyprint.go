package prettyprint

import (
	"encoding/json"
	"fmt"
)

func Print(b any) {
	fmt.Print(Sprint(b))
}

// Sprint renders b as tab indented JSON, or with %+v when b cannot be
// marshaled.
func Sprint(b any) string {
	s, err := json.MarshalIndent(b, "", "\t")
	if err != nil {
		return fmt.Sprintf("%+v", b)
	}
	return string(s)
}
