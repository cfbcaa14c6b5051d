package encode

// FormatVersion is the version of the document layout written by Encode. It
// travels with every push in the X-Houlog-Format-Version header.
const FormatVersion = "1.0.0"
