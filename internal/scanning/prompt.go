package scanning

// readTextPrompt is the shared prompt used by all LLM providers for reading receipts
const readTextPrompt = `You are an OCR engine reading a photographed shop receipt. Transcribe every piece of printed text you can see.

Return ONLY a JSON array of strings, one element per text fragment, for example:
["TOKO MAKMUR", "Beras 5kg 25.000", "Gula 8.000", "TOTAL 33.000"]

Important:
- Copy the text exactly as printed, including currency symbols such as "Rp" and thousand separators
- Keep an item name and its price together in one fragment when they are on the same printed line
- Do not translate, correct, summarize or total anything
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
