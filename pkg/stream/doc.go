// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package stream turns a byte source into an ordered, gap-free sequence of
literal runs and pattern matches.

	  source ──► [ block ] ──► window = carry + block
	                               │
	                               ▼
	                       automaton (Aho-Corasick)
	                               │
	            ┌──────────────────┴──────────────────┐
	            ▼                                     ▼
	     Literal segment                        Match segment
	   (bytes that can never                 (leftmost, then shortest
	    start a match)                        pattern; no overlaps)

🎯 Purpose:
  - Read the source in fixed-size blocks
  - Recognize every configured pattern in one forward pass
  - Hold back only the bytes that may still become part of a match

🔄 Flow:
 1. Read one block and append it to the carried bytes
 2. Feed bytes to the automaton, remembering the leftmost completed match
 3. Emit the match once no earlier-starting prefix is still alive
 4. At the end of a block, emit what is certainly literal and carry the rest
 5. At end of input, settle any pending match and flush the carry as literal

Concatenating the segments' Bytes in order reproduces the input exactly.
Adjacent literal segments may be split differently depending on the block
size; after merging them, the sequence does not depend on how the input was
split into reads.

🔍 Example:

	sc := stream.NewScanner(auto, os.Stdin, stream.WithBlockSize(4096))
	for sc.Scan() {
		seg := sc.Segment()
		switch seg.Kind {
		case stream.Literal:
			os.Stdout.Write(seg.Bytes)
		case stream.Match:
			repl, _ := auto.Replacement(seg.Pattern)
			io.WriteString(os.Stdout, repl)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
*/
package stream
