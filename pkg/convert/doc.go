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
Package convert runs a pattern table over inputs and writes the result.

	+---------+     +-----------+     +------------+     +--------+
	|  Input  | --> |  Scanner  | --> | Substitute | --> |  Sink  |
	| (fsio)  |     | (stream)  |     |            |     | (fsio) |
	+---------+     +-----------+     +------------+     +--------+

🎯 Purpose:
- Bind a compiled automaton to a block size (Converter)
- Drive one conversion from source to sink (Convert)
- Run several conversions in order (Runner)

⚡ Guarantees:
- Memory stays bounded by the block size plus the longest pattern
- File sinks are committed only after the whole input converted
- A failed conversion never leaves a partial destination behind
*/
package convert
