package query

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/wavescan/internal/logic"
	"github.com/roach88/wavescan/internal/trace"
)

// parser is a recursive-descent parser over a token slice.
// Precedence, lowest first: or, and, comparison, primary.
type parser struct {
	toks []Token
	pos  int
	src  trace.Source
	used []trace.Net
	seen map[string]bool
}

// ParseExpr parses text into an expression tree, resolving net names
// against src. All errors are *ParseError. A nil src skips resolution and
// width checks (see Check).
func ParseExpr(text string, src trace.Source) (BoolNode, []trace.Net, error) {
	toks, err := Tokenize(text)
	if err != nil {
		return nil, nil, err
	}
	p := &parser{toks: toks, src: src, seen: make(map[string]bool)}

	root, err := p.parseOr()
	if err != nil {
		return nil, nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, nil, p.unexpected(tok, "expected and, or or end of expression")
	}
	return root, p.used, nil
}

// ParseValue parses a single net reference or literal, such as
// top.addr[15:8] or 'h3f, resolving net names against src.
func ParseValue(text string, src trace.Source) (ValueNode, error) {
	toks, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, src: src, seen: make(map[string]bool)}

	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, p.unexpected(tok, "expected end of value")
	}
	return v, nil
}

// Check reports the first syntax error in text without resolving net names.
// Bit indices are only range-checked against each other, since widths are
// unknown. A nil result does not guarantee that Parse succeeds against a
// particular trace.
func Check(text string) error {
	_, _, err := ParseExpr(text, nil)
	return err
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.unexpected(tok, fmt.Sprintf("expected %s", kind))
	}
	return p.advance(), nil
}

func (p *parser) unexpected(tok Token, hint string) *ParseError {
	return newParseError(ErrCodeUnexpectedToken,
		fmt.Sprintf("unexpected %s, %s", tok.describe(), hint), tok.Start, tok.End, nil)
}

func (p *parser) parseOr() (BoolNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (BoolNode, error) {
	left, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokenAnd {
		p.advance()
		right, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

var relops = map[TokenKind]CompareOp{
	TokenEq: OpEq,
	TokenNe: OpNe,
	TokenLt: OpLt,
	TokenLe: OpLe,
	TokenGt: OpGt,
	TokenGe: OpGe,
}

func (p *parser) parseCondition() (BoolNode, error) {
	if p.peek().Kind == TokenLParen {
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil
	}

	left, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	op, ok := relops[p.peek().Kind]
	if !ok {
		return &Comparison{Op: OpNe, Left: left, Right: zero}, nil
	}
	p.advance()
	right, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &Comparison{Op: op, Left: left, Right: right}, nil
}

// zero is the implicit right-hand side of a bare value condition.
var zero = &Constant{Value: logic.New(1), Radix: 10}

func (p *parser) parseValue() (ValueNode, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIdent:
		p.advance()
		return p.parseNetRef(tok)
	case TokenLiteral:
		p.advance()
		v, radix, err := logic.ParseLiteral(tok.Text, 10)
		if err != nil {
			return nil, newParseError(ErrCodeInvalidLiteral, err.Error(), tok.Start, tok.End, err)
		}
		return &Constant{Value: v, Radix: radix}, nil
	default:
		return nil, p.unexpected(tok, "expected net name or literal")
	}
}

func (p *parser) parseNetRef(name Token) (ValueNode, error) {
	net, err := p.resolve(name.Text)
	if err != nil {
		code := ErrCodeUnknownNet
		if errors.Is(err, trace.ErrAmbiguousNet) {
			code = ErrCodeAmbiguousNet
		}
		return nil, newParseError(code, err.Error(), name.Start, name.End, err)
	}
	if !p.seen[net.Name] {
		p.seen[net.Name] = true
		p.used = append(p.used, net)
	}

	ref := &NetRef{Net: net}
	if p.peek().Kind != TokenLBrack {
		return ref, nil
	}
	p.advance()

	highTok, high, err := p.parseIndex(net)
	if err != nil {
		return nil, err
	}
	lowTok, low := highTok, high
	ref.SingleBit = true
	if p.peek().Kind == TokenColon {
		p.advance()
		lowTok, low, err = p.parseIndex(net)
		if err != nil {
			return nil, err
		}
		ref.SingleBit = false
	}
	if _, err := p.expect(TokenRBrack); err != nil {
		return nil, err
	}
	if high < low {
		return nil, newParseError(ErrCodeInvalidSlice,
			fmt.Sprintf("slice high index %d is below low index %d", high, low),
			highTok.Start, lowTok.End, nil)
	}

	ref.Sliced = true
	ref.High, ref.Low = high, low
	return ref, nil
}

func (p *parser) resolve(name string) (trace.Net, error) {
	if p.src == nil {
		return trace.Net{Name: trace.NormalizeName(name)}, nil
	}
	return trace.Resolve(p.src, name)
}

// parseIndex reads a decimal bit index and checks it against the net width.
func (p *parser) parseIndex(net trace.Net) (Token, int, error) {
	tok := p.peek()
	if tok.Kind != TokenLiteral || tok.Text[0] == '\'' {
		return tok, 0, p.unexpected(tok, "expected bit index")
	}
	p.advance()
	idx, err := strconv.Atoi(tok.Text)
	if err != nil || (p.src != nil && idx >= net.Width) {
		return tok, 0, newParseError(ErrCodeInvalidSlice,
			fmt.Sprintf("bit index %s out of range for %d-bit net %s", tok.Text, net.Width, net.Name),
			tok.Start, tok.End, nil)
	}
	return tok, idx, nil
}
