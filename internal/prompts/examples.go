package prompts

// Example is a ready-made project description offered to operators.
type Example struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Examples returns the embedded example projects ordered by name.
func Examples() ([]Example, error) {
	names, err := List(ExamplesFile)
	if err != nil {
		return nil, err
	}

	examples := make([]Example, 0, len(names))
	for _, name := range names {
		desc, err := Get(ExamplesFile, name)
		if err != nil {
			return nil, err
		}
		examples = append(examples, Example{Name: name, Description: desc})
	}
	return examples, nil
}

// FindExample looks up an example project by exact name.
func FindExample(name string) (Example, bool) {
	desc, err := Get(ExamplesFile, name)
	if err != nil {
		return Example{}, false
	}
	return Example{Name: name, Description: desc}, true
}
