package dxf

var groupCodeMeanings = map[int]string{
	0:   "Entity Type",
	1:   "Primary Text String",
	2:   "Name",
	3:   "Additional Text",
	5:   "Handle",
	6:   "Linetype",
	7:   "Text Style Name",
	8:   "Layer Name",
	9:   "Variable Name",
	10:  "X Coordinate (Main)",
	20:  "Y Coordinate (Main)",
	30:  "Z Coordinate (Main)",
	40:  "Double Precision Value",
	50:  "Angle",
	62:  "Color Number",
	70:  "Integer Value",
	210: "X Direction Vector",
	220: "Y Direction Vector",
	230: "Z Direction Vector",
	999: "Comment",
}

// GroupCodeMeaning returns a human-readable description of a DXF group code.
func GroupCodeMeaning(code int) string {
	if m, ok := groupCodeMeanings[code]; ok {
		return m
	}
	return "Other"
}
