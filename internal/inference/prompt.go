package inference

// DefaultPrompt is the instruction pre-filled for specimen-label transcription.
const DefaultPrompt = `You are given an image containing multiple specimen labels from a natural history museum collection.

Transcribe all printed and handwritten text on this label of a specimen from a collection of a museum for natural history, being especially careful to preserve any scientific names, dates, and location information. Maintain the original formatting and line breaks with exception of the NURI (an URL starting with http://coll.mfn-berlin.de/u/{HEXhash}) — the label with QR-code should have the full URL displayed in the output.

Please extract the text from each distinct label individually, and return the output as a list of labeled code blocks.

Use this format:

` + "```" + `label 1
<text from the first label> 
` + "```" + `

` + "```" + `label 2
<text from the second label>
` + "```" + `

and so on... 

aim to segment all the labels correctly
`
