// Package ceilo decodes raw Vaisala ceilometer data files into gridded
// backscatter profiles.
//
// # File format
//
// A raw file is a sequence of message blocks, each preceded by a blank line
// (LF or CRLF). A block starts with a timestamp line written by the logging
// PC ("-2024-04-26 00:01:00"), followed by the instrument message itself:
//
//	line 1: STX + model/unit/software/message identifiers (fixed offsets)
//	line 2: detection status, warnings, cloud base data, warning flags
//	line 3: optional status line, present only for some message numbers
//	line 4: (CL31/CL51 only) whitespace-separated measurement parameters
//	data:   the backscatter profile as fixed-width hexadecimal integers
//	        (one long line for CL models, 16 prefixed lines for CT25k)
//	trailer: ETX + checksum
//
// The message number must be the same for every block in a file; mixed
// message types cannot be decoded against a single schema.
//
// # Hex encoding
//
// Each range gate is a fixed-width big-endian hexadecimal integer. Values
// with the model's sign bit set encode negatives: CL models use 20-bit words
// (sign bit 0x80000, correction 0x100000), CT25k uses 16-bit words (sign bit
// 0x8000, correction 0x10000). Dividing the corrected integers by the model
// scale factor (1e8 for CL, 1e7 for CT25k) yields attenuated backscatter in
// sr-1 m-1.
//
// Supported models and their detection signatures on header line 1:
//
//	CL01 -> cl51
//	CL02 -> cl31
//	CT02 -> ct25k
//
// Decoding is strict about file structure (missing sentinels, short header
// lines and inconsistent message numbers are fatal) but tolerant of single
// bad profiles: a hex payload that fails to parse leaves a zero-filled row
// and a warning on the resulting ProfileSet.
package ceilo
