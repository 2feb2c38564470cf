package parser

import (
	"pie/internal/domain"
	"pie/internal/port"
)

const (
	textSystemPrompt  = "You are an assistant that extracts specific information from invoices."
	imageSystemPrompt = "You are an assistant that extracts specific information from invoice images."

	fieldInstructions = "1. Name of the beneficiary\n" +
		"2. IBAN account number of the beneficiary\n" +
		"3. Amount to be paid (in the following format: XXXXX.YY, without currencies or symbol at the end)\n" +
		"4. Communication or reference\n\n" +
		"Present the results as a JSON object with the fields 'name', 'account', 'amount', and 'communication'. " +
		"All fields are optional. If any information is not found, omit the field from the JSON object. Verify every number twice."

	textInstructions  = "Analyze this invoice text extracted from a PDF and extract the following information:\n" + fieldInstructions
	imageInstructions = "Analyze this invoice image and extract the following information:\n" + fieldInstructions
)

// BuildTextPayload returns the prompt for an invoice whose text was extracted from a PDF.
func BuildTextPayload(text string) port.ExtractionRequestPayload {
	return port.ExtractionRequestPayload{
		System: textSystemPrompt,
		Parts: []port.ContentPart{
			{Type: domain.ContentPartText, Text: textInstructions},
			{Type: domain.ContentPartText, Text: "Extracted text:\n" + text},
		},
	}
}

// BuildImagePayload returns the prompt for an invoice image passed as a data URL.
func BuildImagePayload(dataURL string) port.ExtractionRequestPayload {
	return port.ExtractionRequestPayload{
		System: imageSystemPrompt,
		Parts: []port.ContentPart{
			{Type: domain.ContentPartText, Text: imageInstructions},
			{Type: domain.ContentPartImageURL, ImageURL: dataURL},
		},
	}
}
