package models

type CategoryOption struct {
	Value int
	Label string
	Icon  string
}

func EntryTypeOptions() []CategoryOption {
	return []CategoryOption{
		{Value: 1, Label: "Separate hard lumps", Icon: "🪨"},
		{Value: 2, Label: "Lumpy and sausage-like", Icon: "🥜"},
		{Value: 3, Label: "Sausage with cracks", Icon: "🌭"},
		{Value: 4, Label: "Smooth, soft sausage", Icon: "🍌"},
		{Value: 5, Label: "Soft blobs with clear edges", Icon: "🫘"},
		{Value: 6, Label: "Mushy with ragged edges", Icon: "🥣"},
		{Value: 7, Label: "Liquid, no solid pieces", Icon: "💧"},
	}
}

func EntryVolumeOptions() []CategoryOption {
	return []CategoryOption{
		{Value: 1, Label: "Small", Icon: "▫️"},
		{Value: 2, Label: "Medium", Icon: "◽"},
		{Value: 3, Label: "Large", Icon: "⬜"},
	}
}

func EntryFeelingOptions() []CategoryOption {
	return []CategoryOption{
		{Value: 1, Label: "Easy", Icon: "😌"},
		{Value: 2, Label: "Normal", Icon: "🙂"},
		{Value: 3, Label: "Hard", Icon: "😣"},
		{Value: 4, Label: "Painful", Icon: "😖"},
	}
}

func EntryColorOptions() []CategoryOption {
	return []CategoryOption{
		{Value: 1, Label: "Brown", Icon: "🟤"},
		{Value: 2, Label: "Dark brown", Icon: "🟫"},
		{Value: 3, Label: "Light brown", Icon: "🟠"},
		{Value: 4, Label: "Yellow", Icon: "🟡"},
		{Value: 5, Label: "Green", Icon: "🟢"},
		{Value: 6, Label: "Black or red", Icon: "🔴"},
	}
}

func optionInRange(options []CategoryOption, value int) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}

func IsValidEntryType(value int) bool    { return optionInRange(EntryTypeOptions(), value) }
func IsValidEntryVolume(value int) bool  { return optionInRange(EntryVolumeOptions(), value) }
func IsValidEntryFeeling(value int) bool { return optionInRange(EntryFeelingOptions(), value) }
func IsValidEntryColor(value int) bool   { return optionInRange(EntryColorOptions(), value) }
