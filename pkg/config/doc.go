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
Package config finds and parses the pattern configuration.

	            +-------------+
	            |   Config    |
	            | (Patterns)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Locate the configuration file by walking up from the input's directory
- Parse it into a name to replacement map
- Turn that map into a pattern table

🔄 Flow:
1. Resolve picks the file: an explicit path, or Find from a search origin
2. Load reads it and hands it to the parser registered for its extension
3. Config.Table builds the pattern table

📝 Format (YAML, the default):

	patterns:
	  alpha: α
	  beta: β
	  to: →

Every key and value under patterns must be a string. Other top-level keys
are ignored.

⚡ Errors:
- No file found in any ancestor: usage error 7
- Malformed syntax: parse error
- Wrong shape (no patterns dictionary, non-string entries): usage error 8
- Anything else while reading: file system error for the config file
*/
package config
