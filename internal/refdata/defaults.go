package refdata

// Defaults returns the built-in reference lists. Deployments with a fuller
// formulary override these through REFDATA_DICTIONARY_PATH.
func Defaults() *ReferenceData {
	return &ReferenceData{
		DrugNames: []string{
			"ACETAMINOPHEN",
			"ALBUTEROL",
			"AMLODIPINE",
			"AMOXICILLIN",
			"ASPIRIN",
			"ATORVASTATIN",
			"GABAPENTIN",
			"HYDROCHLOROTHIAZIDE",
			"IBUPROFEN",
			"LISINOPRIL",
			"LOSARTAN",
			"METFORMIN",
			"METOPROLOL",
			"MORPHINE SULFATE",
			"OMEPRAZOLE",
			"OXYCODONE",
			"SERTRALINE",
			"SIMVASTATIN",
		},
		Manufacturers: []string{
			"PharmaCorp Inc.",
			"MediLab GmbH",
			"Cipla Ltd.",
			"Sun Pharmaceutical Industries",
			"Teva Pharmaceuticals",
			"Novex Biotech",
		},
		ControlledSubstances: map[string][]string{
			"MORPHINE": {"MORPHINE SULFATE", "MORPHINE HCL"},
			"OXYCODONE": {
				"OXYCODONE HCL",
				"OXYCONTIN",
			},
			"FENTANYL":        {"FENTANYL CITRATE"},
			"HYDROCODONE":     {"HYDROCODONE BITARTRATE"},
			"CODEINE":         {"CODEINE PHOSPHATE"},
			"DIAZEPAM":        {"VALIUM"},
			"ALPRAZOLAM":      {"XANAX"},
			"METHYLPHENIDATE": {"RITALIN"},
			"AMPHETAMINE":     {"ADDERALL", "DEXTROAMPHETAMINE"},
		},
	}
}

// ConfusionPairs are character misrecognitions OCR engines commonly make on
// printed labels. Used when generating batch-number correction candidates.
var ConfusionPairs = map[rune]rune{
	'0': 'O',
	'O': '0',
	'1': 'I',
	'I': '1',
	'5': 'S',
	'S': '5',
	'8': 'B',
	'B': '8',
}
