// File: doc.go
// Title: Indentation Scanner Package Documentation
// Description: Indentation tracker for Yarn dialogue sources. Decides, at
//              the positions a host parser asks about, whether a block opens
//              (INDENT), closes (DEDENT) or neither.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial tracker implementation

/*
Package scanner implements the indentation tracker used by the Yarn grammar.

The tracker is driven by a host lexer. Each time the grammar could accept an
INDENT or DEDENT the host calls Scan with the set of acceptable kinds. The
tracker either claims the position by emitting exactly one token or declines
so the host can try its own rules.

  • A stack of open indentation widths, strictly increasing bottom to top
  • A pending dedent count, flushed one DEDENT per Scan call
  • Whitespace measured with spaces as 1 column and tabs as 8
  • Blank lines and lines starting with the comment marker are ignored
  • At end of input every open level is closed with one DEDENT per call

State can be checkpointed with Serialize and restored with Deserialize, so a
host that backtracks can resume from any earlier position. A checkpoint is a
sequence of little-endian uint32 words:

	[level count] [pending dedents] [level 0] ... [level n-1]

A Scanner is not safe for concurrent use. Hosts exploring several branches
at once give each branch its own Scanner restored from a checkpoint.
*/
package scanner
