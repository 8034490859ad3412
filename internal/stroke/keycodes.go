package stroke

import "fmt"

// Key is a full keyboard scan code: base code in the low byte, E0/E1
// extended prefix in the high byte.
type Key uint16

// Extended-code prefixes carried in the high byte of a Key.
const (
	PrefixE0 Key = 0xE000
	PrefixE1 Key = 0xE100
)

// Modifier keys.
const (
	KeyLeftShift  Key = 0x2A
	KeyRightShift Key = 0x36
	KeyLeftCtrl   Key = 0x1D
	KeyRightCtrl  Key = 0xE01D
	KeyLeftAlt    Key = 0x38
	KeyRightAlt   Key = 0xE038 // AltGr
	KeyCapsLock   Key = 0x3A
)

// Alphanumeric keys.
const (
	KeyA Key = 0x1E
	KeyB Key = 0x30
	KeyC Key = 0x2E
	KeyD Key = 0x20
	KeyE Key = 0x12
	KeyF Key = 0x21
	KeyG Key = 0x22
	KeyH Key = 0x23
	KeyI Key = 0x17
	KeyJ Key = 0x24
	KeyK Key = 0x25
	KeyL Key = 0x26
	KeyM Key = 0x32
	KeyN Key = 0x31
	KeyO Key = 0x18
	KeyP Key = 0x19
	KeyQ Key = 0x10
	KeyR Key = 0x13
	KeyS Key = 0x1F
	KeyT Key = 0x14
	KeyU Key = 0x16
	KeyV Key = 0x2F
	KeyW Key = 0x11
	KeyX Key = 0x2D
	KeyY Key = 0x15
	KeyZ Key = 0x2C

	Key0 Key = 0x0B
	Key1 Key = 0x02
	Key2 Key = 0x03
	Key3 Key = 0x04
	Key4 Key = 0x05
	Key5 Key = 0x06
	Key6 Key = 0x07
	Key7 Key = 0x08
	Key8 Key = 0x09
	Key9 Key = 0x0A

	KeySpace     Key = 0x39
	KeyTab       Key = 0x0F
	KeyEnter     Key = 0x1C
	KeyBackspace Key = 0x0E
	KeyEscape    Key = 0x01
)

// Function keys.
const (
	KeyF1  Key = 0x3B
	KeyF2  Key = 0x3C
	KeyF3  Key = 0x3D
	KeyF4  Key = 0x3E
	KeyF5  Key = 0x3F
	KeyF6  Key = 0x40
	KeyF7  Key = 0x41
	KeyF8  Key = 0x42
	KeyF9  Key = 0x43
	KeyF10 Key = 0x44
	KeyF11 Key = 0x57
	KeyF12 Key = 0x58

	KeyF13 Key = 0x64
	KeyF14 Key = 0x65
	KeyF15 Key = 0x66
	KeyF16 Key = 0x67
	KeyF17 Key = 0x68
	KeyF18 Key = 0x69
	KeyF19 Key = 0x6A
	KeyF20 Key = 0x6B
	KeyF21 Key = 0x6C
	KeyF22 Key = 0x6D
	KeyF23 Key = 0x6E
	KeyF24 Key = 0x76
)

// Navigation and editing keys. Pause/Break is absent: it arrives as an
// E1-prefixed multi-stroke sequence, not a single code.
const (
	KeyInsert   Key = 0xE052
	KeyDelete   Key = 0xE053
	KeyHome     Key = 0xE047
	KeyEnd      Key = 0xE04F
	KeyPageUp   Key = 0xE049
	KeyPageDown Key = 0xE051
	KeyUp       Key = 0xE048
	KeyDown     Key = 0xE050
	KeyLeft     Key = 0xE04B
	KeyRight    Key = 0xE04D

	KeyPrintScreen Key = 0xE037
	KeyScrollLock  Key = 0x46
)

// Numpad keys.
const (
	KeyNumpad0 Key = 0x52
	KeyNumpad1 Key = 0x4F
	KeyNumpad2 Key = 0x50
	KeyNumpad3 Key = 0x51
	KeyNumpad4 Key = 0x4B
	KeyNumpad5 Key = 0x4C
	KeyNumpad6 Key = 0x4D
	KeyNumpad7 Key = 0x47
	KeyNumpad8 Key = 0x48
	KeyNumpad9 Key = 0x49

	KeyNumpadEnter    Key = 0xE01C
	KeyNumpadPlus     Key = 0x4E
	KeyNumpadMinus    Key = 0x4A
	KeyNumpadMultiply Key = 0x37
	KeyNumpadDivide   Key = 0xE035
	KeyNumpadDecimal  Key = 0x53
	KeyNumLock        Key = 0x45
)

// OEM / punctuation keys (US layout).
const (
	KeySemicolon    Key = 0x27
	KeyApostrophe   Key = 0x28
	KeyGrave        Key = 0x29
	KeyComma        Key = 0x33
	KeyPeriod       Key = 0x34
	KeySlash        Key = 0x35
	KeyBackslash    Key = 0x2B
	KeyLeftBracket  Key = 0x1A
	KeyRightBracket Key = 0x1B
	KeyMinus        Key = 0x0C
	KeyEqual        Key = 0x0D
)

// Media, browser and OS keys.
const (
	KeyMediaNextTrack Key = 0xE019
	KeyMediaPrevTrack Key = 0xE010
	KeyMediaStop      Key = 0xE024
	KeyMediaPlayPause Key = 0xE022

	KeyVolumeMute Key = 0xE020
	KeyVolumeDown Key = 0xE02E
	KeyVolumeUp   Key = 0xE030

	KeyLaunchMail      Key = 0xE06C
	KeyLaunchMedia     Key = 0xE06D
	KeyLaunchApp1      Key = 0xE06B
	KeyLaunchApp2      Key = 0xE021
	KeyBrowserHome     Key = 0xE032
	KeyBrowserSearch   Key = 0xE065
	KeyBrowserFavorite Key = 0xE066
	KeyBrowserRefresh  Key = 0xE067
	KeyBrowserStop     Key = 0xE068
	KeyBrowserForward  Key = 0xE069
	KeyBrowserBack     Key = 0xE06A

	KeyLeftWindows  Key = 0xE05B
	KeyRightWindows Key = 0xE05C
	KeyAppMenu      Key = 0xE05D
)

// Base returns the low-byte scan code without the extended prefix.
func (k Key) Base() uint16 {
	return uint16(k) & 0x00FF
}

// Prefix returns the extended-code prefix (PrefixE0, PrefixE1, or zero).
func (k Key) Prefix() Key {
	return k & 0xFF00
}

var keyNames = map[Key]string{
	KeyLeftShift: "LeftShift", KeyRightShift: "RightShift",
	KeyLeftCtrl: "LeftCtrl", KeyRightCtrl: "RightCtrl",
	KeyLeftAlt: "LeftAlt", KeyRightAlt: "RightAlt",
	KeyCapsLock: "CapsLock",

	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F",
	KeyG: "G", KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L",
	KeyM: "M", KeyN: "N", KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R",
	KeyS: "S", KeyT: "T", KeyU: "U", KeyV: "V", KeyW: "W", KeyX: "X",
	KeyY: "Y", KeyZ: "Z",

	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",

	KeySpace: "Space", KeyTab: "Tab", KeyEnter: "Enter",
	KeyBackspace: "Backspace", KeyEscape: "Escape",

	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5",
	KeyF6: "F6", KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10",
	KeyF11: "F11", KeyF12: "F12", KeyF13: "F13", KeyF14: "F14",
	KeyF15: "F15", KeyF16: "F16", KeyF17: "F17", KeyF18: "F18",
	KeyF19: "F19", KeyF20: "F20", KeyF21: "F21", KeyF22: "F22",
	KeyF23: "F23", KeyF24: "F24",

	KeyInsert: "Insert", KeyDelete: "Delete", KeyHome: "Home",
	KeyEnd: "End", KeyPageUp: "PageUp", KeyPageDown: "PageDown",
	KeyUp: "Up", KeyDown: "Down", KeyLeft: "Left", KeyRight: "Right",
	KeyPrintScreen: "PrintScreen", KeyScrollLock: "ScrollLock",

	KeyNumpad0: "Numpad0", KeyNumpad1: "Numpad1", KeyNumpad2: "Numpad2",
	KeyNumpad3: "Numpad3", KeyNumpad4: "Numpad4", KeyNumpad5: "Numpad5",
	KeyNumpad6: "Numpad6", KeyNumpad7: "Numpad7", KeyNumpad8: "Numpad8",
	KeyNumpad9: "Numpad9", KeyNumpadEnter: "NumpadEnter",
	KeyNumpadPlus: "NumpadPlus", KeyNumpadMinus: "NumpadMinus",
	KeyNumpadMultiply: "NumpadMultiply", KeyNumpadDivide: "NumpadDivide",
	KeyNumpadDecimal: "NumpadDecimal", KeyNumLock: "NumLock",

	KeySemicolon: "Semicolon", KeyApostrophe: "Apostrophe",
	KeyGrave: "Grave", KeyComma: "Comma", KeyPeriod: "Period",
	KeySlash: "Slash", KeyBackslash: "Backslash",
	KeyLeftBracket: "LeftBracket", KeyRightBracket: "RightBracket",
	KeyMinus: "Minus", KeyEqual: "Equal",

	KeyMediaNextTrack: "MediaNextTrack", KeyMediaPrevTrack: "MediaPrevTrack",
	KeyMediaStop: "MediaStop", KeyMediaPlayPause: "MediaPlayPause",
	KeyVolumeMute: "VolumeMute", KeyVolumeDown: "VolumeDown",
	KeyVolumeUp: "VolumeUp",
	KeyLaunchMail: "LaunchMail", KeyLaunchMedia: "LaunchMedia",
	KeyLaunchApp1: "LaunchApp1", KeyLaunchApp2: "LaunchApp2",
	KeyBrowserHome: "BrowserHome", KeyBrowserSearch: "BrowserSearch",
	KeyBrowserFavorite: "BrowserFavorite", KeyBrowserRefresh: "BrowserRefresh",
	KeyBrowserStop: "BrowserStop", KeyBrowserForward: "BrowserForward",
	KeyBrowserBack: "BrowserBack",
	KeyLeftWindows: "LeftWindows", KeyRightWindows: "RightWindows",
	KeyAppMenu: "AppMenu",
}

// String returns the key name, or the hex code for unnamed keys.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(0x%04X)", uint16(k))
}
