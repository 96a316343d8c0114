package host

import (
	"errors"

	"github.com/ezrec/bytevm/translate"
)

var f = translate.From

var ErrUnsupported = errors.New(f("capability not supported"))
var ErrNoValue = errors.New(f("no value in input"))
var ErrNoInput = errors.New(f("no input stream"))
var ErrNoOutput = errors.New(f("no output stream"))
