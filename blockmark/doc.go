// Package blockmark converts between the fenced block directive text format
// and the in-memory block tree. It is the persistence format for page
// content: human-editable markdown-adjacent text that survives a round trip
// through parse and serialize.
//
// # Format
//
// A document is a sequence of fenced sections separated by free text (which
// parsing ignores). A leaf block is one fence:
//
//	```block:content
//	type: core:paragraph
//	id: blk_9f2kQ1mZxA7c
//	content:
//	    text: hello
//	```
//
// The fence body is a YAML document with the keys type, id, content and
// config, in that order; content and config appear only when non-empty. A
// container block opens with ```block:container instead, and between its body
// fence and its terminator carries one section per region:
//
//	```block:container
//	type: core:columns
//	id: blk_A8bbT0qRd2Ww
//	```
//	---region:left---
//	```block:content
//	type: core:paragraph
//	id: blk_Xc31LpO9aa0M
//	content:
//	    text: left side
//	```
//	---region:right---
//	```block:end
//	```
//
// Each ---region:<name>--- marker opens a region that runs to the next marker
// or to the ```block:end terminator; region text is itself blockmark and is
// parsed recursively. A marker with no following sections declares an empty
// region. Containers nest: the terminator is matched by depth, so a container
// inside a region never closes its parent.
//
// # Reserved tokens
//
//	```block:content      opens a leaf section
//	```block:container    opens a container section
//	```block:end          closes the innermost open container
//	```                   closes a fence body (and follows ```block:end)
//	---region:<name>---   opens a region inside a container
//
// A token line must start at column 0 and carry nothing but the token
// (trailing blanks are tolerated). Because fence bodies are YAML, field
// values can never collide with the token grammar: yaml.v3 emits multi-line
// strings as indented block scalars and keeps single-line strings after their
// key, so no value text ever lands at column 0. Text that spells a token at
// column 0 outside a fence body is a token; there is no character escape.
//
// # Error recovery
//
// Parsing never fails. A section whose body is not valid YAML or lacks a type
// key is skipped with a warning and parsing resumes at the next token; a
// container missing its terminator absorbs the rest of the input into its
// last opened region. Serialize has exactly one error case: the YAML encoder
// rejecting a field value, which callers must treat as "do not persist".
package blockmark
