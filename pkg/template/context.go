package template

import "github.com/A2-ai/spackle/pkg/types"

// NewContext binds every slot to its value (supplied, else default, else
// zero value) and adds the universal slots.
func NewContext(slots []types.Slot, values types.Values, universals map[string]interface{}) Context {
	ctx := make(Context, len(slots)+len(universals))
	for _, s := range slots {
		ctx[s.Key] = s.Value(values).Native()
	}
	for k, v := range universals {
		ctx[k] = v
	}
	return ctx
}

// ZeroContext binds every slot to its type's zero value. Used to check that
// templates reference only declared names.
func ZeroContext(slots []types.Slot, universals map[string]interface{}) Context {
	ctx := make(Context, len(slots)+len(universals))
	for _, s := range slots {
		ctx[s.Key] = types.ZeroValue(s.Type).Native()
	}
	for k, v := range universals {
		ctx[k] = v
	}
	return ctx
}
