package export

// gaokaoPreamble is the exam-paper header. The \choice macro measures the
// four options and picks a one-line, two-line, or four-line layout; \undsp
// is the fill-in-the-blank underline; \spar the slanted parallel symbol.
const gaokaoPreamble = `\documentclass[no-math]{ctexart}
\setCJKmainfont{Noto Serif CJK SC}
\setCJKsansfont{Noto Sans CJK SC}
\setCJKmonofont{Noto Sans Mono CJK SC}
\everymath{\displaystyle}

\usepackage{amsmath,amssymb}
\usepackage{tikz}
\usetikzlibrary{arrows.meta,patterns,calc}
\usepackage{graphicx}
\usepackage{enumitem}
\setenumerate{itemsep=0pt,partopsep=0pt,parsep=\parskip,topsep=0pt}
\allowdisplaybreaks[4]
\tikzset{
  every picture/.style={scale=0.75},
  every node/.style={font=\small},
  line width=0.5pt,
  >={Stealth[length=4pt]}
}

\usepackage[paperheight=26cm,paperwidth=18.4cm,left=2cm,right=2cm,top=1.5cm,bottom=2cm,headsep=10pt]{geometry}
\usepackage{fancyhdr}
\pagestyle{fancy}
\renewcommand{\headrulewidth}{0pt}
\usepackage{lastpage}
\usepackage[bodytextleadingratio=1.67,restoremathleading=true]{zhlineskip}
\usepackage{ifthen}

% 选项自适应排版命令
\newcommand{\onech}[4]{\makebox[3.4cm][l]{{\sf A}．#1}\makebox[3.4cm][l]{{\sf B}．#2}\makebox[3.4cm][l]{{\sf C}．#3}\makebox[3.4cm][l]{{\sf D}．#4}}
\newcommand{\twoch}[4]{\makebox[6.8cm][l]{{\sf A}．#1}\makebox[6.8cm][l]{{\sf B}．#2}\\ \makebox[6.8cm][l]{{\sf C}．#3}\makebox[6.8cm][l]{{\sf D}．#4}}
\newcommand{\fourch}[4]{{\sf A}．#1\\ {\sf B}．#2\\ {\sf C}．#3\\ {\sf D}．#4}

\newlength\widthcha
\newlength\widthchb
\newlength\widthch
\newlength\fourthtabwidth
\setlength\fourthtabwidth{0.22\textwidth}
\newlength\halftabwidth
\setlength\halftabwidth{0.45\textwidth}

\newcommand{\choice}[4]{%
  \settowidth\widthcha{{\sf A}M.#1}%
  \setlength{\widthch}{\widthcha}%
  \settowidth\widthchb{{\sf B}M.#2}%
  \ifthenelse{\lengthtest{\widthch < \widthchb}}{\setlength{\widthch}{\widthchb}}{}%
  \settowidth\widthchb{{\sf C}M.#3}%
  \ifthenelse{\lengthtest{\widthch < \widthchb}}{\setlength{\widthch}{\widthchb}}{}%
  \settowidth\widthchb{{\sf D}M.#4}%
  \ifthenelse{\lengthtest{\widthch < \widthchb}}{\setlength{\widthch}{\widthchb}}{}%
  \ifthenelse{\lengthtest{\widthch < \fourthtabwidth}}{\onech{#1}{#2}{#3}{#4}}%
  {\ifthenelse{\lengthtest{\widthch < \halftabwidth}}{\twoch{#1}{#2}{#3}{#4}}%
  {\fourch{#1}{#2}{#3}{#4}}}%
}

% 填空横线（兼容数学模式和文本模式）
\newcommand{\undsp}{\underline{\makebox[3em]{}}}

% 斜着的平行符号
\newcommand{\spar}{\mathrel{/\mkern-5mu/}}

\begin{document}
\SetMathEnvironmentSinglespace{1}
\lineskiplimit=5.5pt
\lineskip=7pt
\abovedisplayshortskip=5pt
\belowdisplayshortskip=5pt
\abovedisplayskip=5pt
\belowdisplayskip=5pt

\fancyfoot[C]{\bf\sf 数学试题 第{\sf\thepage} 页 （共~{\sf\pageref{LastPage}}~页）}

`

// answerPreamble heads the answer sheet.
const answerPreamble = `\documentclass[12pt]{ctexart}
\usepackage[UTF8,fontset=none]{ctex}
\setCJKmainfont{Noto Serif CJK SC}
\setCJKsansfont{Noto Sans CJK SC}
\setCJKmonofont{Noto Sans Mono CJK SC}
\usepackage{amsmath,amssymb}
\usepackage{geometry,graphicx,enumitem,array,booktabs,tikz,fancyhdr}
\usepackage[bodytextleadingratio=1.67,restoremathleading=true]{zhlineskip}
\geometry{paperheight=26cm,paperwidth=18.4cm,left=2cm,right=2cm,top=1.5cm,bottom=2cm,headsep=10pt}
\pagestyle{fancy}
\renewcommand{\headrulewidth}{0pt}
\setlength{\parskip}{0.6em}
\setlength{\parindent}{0pt}
\providecommand{\SetMathEnvironmentSinglespace}[1]{}
\newcommand{\undsp}{\underline{\makebox[3em]{}}}
\newcommand{\spar}{\mathrel{/\mkern-5mu/}}

\begin{document}
\SetMathEnvironmentSinglespace{1}
\lineskiplimit=5.5pt
\lineskip=7pt
\abovedisplayshortskip=5pt
\belowdisplayshortskip=5pt
\abovedisplayskip=5pt

`

// singlePreamble heads a one-question preview document.
const singlePreamble = `\documentclass[12pt,a4paper]{article}
\usepackage{ctex}
\usepackage{amsmath,amssymb}
\usepackage{geometry}
\usepackage{graphicx}
\usepackage{tikz}
\usetikzlibrary{arrows.meta}
\geometry{left=2cm,right=2cm,top=2.5cm,bottom=2.5cm}
\newcommand{\undsp}{\underline{\makebox[3em]{}}}
\newcommand{\spar}{\mathrel{/\mkern-5mu/}}
\begin{document}

`
