package iso8583

// defaultFields is the ISO 8583:1987 data element table, indexed by field
// number. Index 0 is unused. Field 1 describes the secondary bitmap; it is
// never encoded as a field value. Fields 28-31 are x+n 8 (C/D sign plus
// eight digits) and are therefore alphanumeric.
var defaultFields = [MaxFieldNumber + 1]FieldDefinition{
	1:  fixed(1, "Secondary Bitmap", DataTypeBinary, 8),
	2:  llvar(2, "Primary Account Number", DataTypeNumeric, 19),
	3:  fixed(3, "Processing Code", DataTypeNumeric, 6),
	4:  fixed(4, "Transaction Amount", DataTypeNumeric, 12),
	5:  fixed(5, "Settlement Amount", DataTypeNumeric, 12),
	6:  fixed(6, "Cardholder Billing Amount", DataTypeNumeric, 12),
	7:  fixed(7, "Transmission Date & Time", DataTypeNumeric, 10),
	8:  fixed(8, "Cardholder Billing Fee Amount", DataTypeNumeric, 8),
	9:  fixed(9, "Settlement Conversion Rate", DataTypeNumeric, 8),
	10: fixed(10, "Cardholder Billing Conversion Rate", DataTypeNumeric, 8),
	11: fixed(11, "System Trace Audit Number", DataTypeNumeric, 6),
	12: fixed(12, "Local Transaction Time", DataTypeNumeric, 6),
	13: fixed(13, "Local Transaction Date", DataTypeNumeric, 4),
	14: fixed(14, "Expiration Date", DataTypeNumeric, 4),
	15: fixed(15, "Settlement Date", DataTypeNumeric, 4),
	16: fixed(16, "Currency Conversion Date", DataTypeNumeric, 4),
	17: fixed(17, "Capture Date", DataTypeNumeric, 4),
	18: fixed(18, "Merchant Type", DataTypeNumeric, 4),
	19: fixed(19, "Acquiring Institution Country Code", DataTypeNumeric, 3),
	20: fixed(20, "PAN Extended Country Code", DataTypeNumeric, 3),
	21: fixed(21, "Forwarding Institution Country Code", DataTypeNumeric, 3),
	22: fixed(22, "Point of Service Entry Mode", DataTypeNumeric, 3),
	23: fixed(23, "Application PAN Sequence Number", DataTypeNumeric, 3),
	24: fixed(24, "Network International Identifier", DataTypeNumeric, 3),
	25: fixed(25, "Point of Service Condition Code", DataTypeNumeric, 2),
	26: fixed(26, "Point of Service Capture Code", DataTypeNumeric, 2),
	27: fixed(27, "Authorizing Identification Response Length", DataTypeNumeric, 1),
	28: fixed(28, "Transaction Fee Amount", DataTypeAlphaNumeric, 9),
	29: fixed(29, "Settlement Fee Amount", DataTypeAlphaNumeric, 9),
	30: fixed(30, "Transaction Processing Fee Amount", DataTypeAlphaNumeric, 9),
	31: fixed(31, "Settlement Processing Fee Amount", DataTypeAlphaNumeric, 9),
	32: llvar(32, "Acquiring Institution Identification Code", DataTypeNumeric, 11),
	33: llvar(33, "Forwarding Institution Identification Code", DataTypeNumeric, 11),
	34: llvar(34, "Extended Primary Account Number", DataTypeNumeric, 28),
	35: llvar(35, "Track 2 Data", DataTypeTrack2, 37),
	36: lllvar(36, "Track 3 Data", DataTypeTrack3, 104),
	37: fixed(37, "Retrieval Reference Number", DataTypeAlphaNumeric, 12),
	38: fixed(38, "Authorization Identification Response", DataTypeAlphaNumeric, 6),
	39: fixed(39, "Response Code", DataTypeAlphaNumeric, 2),
	40: fixed(40, "Service Restriction Code", DataTypeAlphaNumeric, 3),
	41: fixed(41, "Card Acceptor Terminal Identification", DataTypeAlphaNumericSpecial, 8),
	42: fixed(42, "Card Acceptor Identification Code", DataTypeAlphaNumericSpecial, 15),
	43: fixed(43, "Card Acceptor Name/Location", DataTypeAlphaNumericSpecial, 40),
	44: llvar(44, "Additional Response Data", DataTypeAlphaNumericSpecial, 25),
	45: llvar(45, "Track 1 Data", DataTypeAlphaNumericSpecial, 76),
	46: lllvar(46, "Additional Data (ISO)", DataTypeAlphaNumericSpecial, 999),
	47: lllvar(47, "Additional Data (National)", DataTypeAlphaNumericSpecial, 999),
	48: lllvar(48, "Additional Data (Private)", DataTypeAlphaNumericSpecial, 999),
	49: fixed(49, "Currency Code, Transaction", DataTypeAlphaNumeric, 3),
	50: fixed(50, "Currency Code, Settlement", DataTypeAlphaNumeric, 3),
	51: fixed(51, "Currency Code, Cardholder Billing", DataTypeAlphaNumeric, 3),
	52: fixed(52, "Personal Identification Number Data", DataTypeBinary, 8),
	53: fixed(53, "Security Related Control Information", DataTypeNumeric, 16),
	54: lllvar(54, "Additional Amounts", DataTypeAlphaNumericSpecial, 120),
	55: lllvar(55, "ICC Data", DataTypeBinary, 999),
	56: lllvar(56, "Reserved ISO", DataTypeAlphaNumericSpecial, 999),
	57: lllvar(57, "Reserved National", DataTypeAlphaNumericSpecial, 999),
	58: lllvar(58, "Reserved National", DataTypeAlphaNumericSpecial, 999),
	59: lllvar(59, "Reserved National", DataTypeAlphaNumericSpecial, 999),
	60: lllvar(60, "Reserved Private", DataTypeAlphaNumericSpecial, 999),
	61: lllvar(61, "Reserved Private", DataTypeAlphaNumericSpecial, 999),
	62: lllvar(62, "Reserved Private", DataTypeAlphaNumericSpecial, 999),
	63: lllvar(63, "Reserved Private", DataTypeAlphaNumericSpecial, 999),
	64: fixed(64, "Message Authentication Code", DataTypeBinary, 8),

	// Secondary bitmap fields (65-128)
	65:  fixed(65, "Extended Bitmap", DataTypeBinary, 8),
	66:  fixed(66, "Settlement Code", DataTypeNumeric, 1),
	67:  fixed(67, "Extended Payment Code", DataTypeNumeric, 2),
	68:  fixed(68, "Receiving Institution Country Code", DataTypeNumeric, 3),
	69:  fixed(69, "Settlement Institution Country Code", DataTypeNumeric, 3),
	70:  fixed(70, "Network Management Information Code", DataTypeNumeric, 3),
	71:  fixed(71, "Message Number", DataTypeNumeric, 4),
	72:  fixed(72, "Message Number Last", DataTypeNumeric, 4),
	73:  fixed(73, "Date Action", DataTypeNumeric, 6),
	74:  fixed(74, "Credits Number", DataTypeNumeric, 10),
	75:  fixed(75, "Credits Reversal Number", DataTypeNumeric, 10),
	76:  fixed(76, "Debits Number", DataTypeNumeric, 10),
	77:  fixed(77, "Debits Reversal Number", DataTypeNumeric, 10),
	78:  fixed(78, "Transfer Number", DataTypeNumeric, 10),
	79:  fixed(79, "Transfer Reversal Number", DataTypeNumeric, 10),
	80:  fixed(80, "Inquiries Number", DataTypeNumeric, 10),
	81:  fixed(81, "Authorizations Number", DataTypeNumeric, 10),
	82:  fixed(82, "Credits Processing Fee Amount", DataTypeNumeric, 12),
	83:  fixed(83, "Credits Transaction Fee Amount", DataTypeNumeric, 12),
	84:  fixed(84, "Debits Processing Fee Amount", DataTypeNumeric, 12),
	85:  fixed(85, "Debits Transaction Fee Amount", DataTypeNumeric, 12),
	86:  fixed(86, "Credits Amount", DataTypeNumeric, 16),
	87:  fixed(87, "Credits Reversal Amount", DataTypeNumeric, 16),
	88:  fixed(88, "Debits Amount", DataTypeNumeric, 16),
	89:  fixed(89, "Debits Reversal Amount", DataTypeNumeric, 16),
	90:  fixed(90, "Original Data Elements", DataTypeNumeric, 42),
	91:  fixed(91, "File Update Code", DataTypeAlphaNumeric, 1),
	92:  fixed(92, "File Security Code", DataTypeAlphaNumeric, 2),
	93:  fixed(93, "Response Indicator", DataTypeAlphaNumeric, 5),
	94:  fixed(94, "Service Indicator", DataTypeAlphaNumeric, 7),
	95:  fixed(95, "Replacement Amounts", DataTypeAlphaNumeric, 42),
	96:  fixed(96, "Message Security Code", DataTypeBinary, 8),
	97:  fixed(97, "Net Settlement Amount", DataTypeNumeric, 16),
	98:  fixed(98, "Payee", DataTypeAlphaNumericSpecial, 25),
	99:  llvar(99, "Settlement Institution Identification Code", DataTypeNumeric, 11),
	100: llvar(100, "Receiving Institution Identification Code", DataTypeNumeric, 11),
	101: llvar(101, "File Name", DataTypeAlphaNumericSpecial, 17),
	102: llvar(102, "Account Identification 1", DataTypeAlphaNumericSpecial, 28),
	103: llvar(103, "Account Identification 2", DataTypeAlphaNumericSpecial, 28),
	104: lllvar(104, "Transaction Description", DataTypeAlphaNumericSpecial, 100),
	105: lllvar(105, "Reserved ISO 3", DataTypeAlphaNumericSpecial, 999),
	106: lllvar(106, "Reserved ISO 4", DataTypeAlphaNumericSpecial, 999),
	107: lllvar(107, "Reserved ISO 5", DataTypeAlphaNumericSpecial, 999),
	108: lllvar(108, "Reserved ISO 6", DataTypeAlphaNumericSpecial, 999),
	109: lllvar(109, "Reserved ISO 7", DataTypeAlphaNumericSpecial, 999),
	110: lllvar(110, "Reserved ISO 8", DataTypeAlphaNumericSpecial, 999),
	111: lllvar(111, "Reserved ISO 9", DataTypeAlphaNumericSpecial, 999),
	112: lllvar(112, "Reserved National 4", DataTypeAlphaNumericSpecial, 999),
	113: lllvar(113, "Reserved National 5", DataTypeAlphaNumericSpecial, 999),
	114: lllvar(114, "Reserved National 6", DataTypeAlphaNumericSpecial, 999),
	115: lllvar(115, "Reserved National 7", DataTypeAlphaNumericSpecial, 999),
	116: lllvar(116, "Reserved National 8", DataTypeAlphaNumericSpecial, 999),
	117: lllvar(117, "Reserved National 9", DataTypeAlphaNumericSpecial, 999),
	118: lllvar(118, "Reserved National 10", DataTypeAlphaNumericSpecial, 999),
	119: lllvar(119, "Reserved National 11", DataTypeAlphaNumericSpecial, 999),
	120: lllvar(120, "Reserved Private 5", DataTypeAlphaNumericSpecial, 999),
	121: lllvar(121, "Reserved Private 6", DataTypeAlphaNumericSpecial, 999),
	122: lllvar(122, "Reserved Private 7", DataTypeAlphaNumericSpecial, 999),
	123: lllvar(123, "Reserved Private 8", DataTypeAlphaNumericSpecial, 999),
	124: lllvar(124, "Info Text", DataTypeAlphaNumericSpecial, 255),
	125: lllvar(125, "Network Management Information", DataTypeAlphaNumericSpecial, 50),
	126: lllvar(126, "Issuer Trace Id", DataTypeAlphaNumericSpecial, 6),
	127: lllvar(127, "Reserved Private 9", DataTypeAlphaNumericSpecial, 999),
	128: fixed(128, "Message Authentication Code 2", DataTypeBinary, 8),
}

func fixed(n int, name string, t DataType, length int) FieldDefinition {
	return FieldDefinition{Number: n, Name: name, Type: t, Length: LengthFixed, MaxLength: length}
}

func llvar(n int, name string, t DataType, maxLen int) FieldDefinition {
	return FieldDefinition{Number: n, Name: name, Type: t, Length: LengthLLVAR, MaxLength: maxLen}
}

func lllvar(n int, name string, t DataType, maxLen int) FieldDefinition {
	return FieldDefinition{Number: n, Name: name, Type: t, Length: LengthLLLVAR, MaxLength: maxLen}
}
