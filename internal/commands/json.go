package commands

import jsoniter "github.com/json-iterator/go"

// json encodes --format json output with the same codec the feed adapter uses.
var json = jsoniter.ConfigCompatibleWithStandardLibrary
